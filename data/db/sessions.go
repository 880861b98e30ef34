package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const listSessionsBySource = `
SELECT id, source_id, day, start_minutes, end_minutes, location,
	course_code, normalized_code, details, lecturer
FROM timetable_sessions
WHERE source_id = $1
ORDER BY day, start_minutes, id
`

func (q *Queries) ListSessionsBySource(ctx context.Context, sourceID int64) ([]TimetableSession, error) {
	rows, err := q.db.Query(ctx, listSessionsBySource, sourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TimetableSession
	for rows.Next() {
		var i TimetableSession
		if err := rows.Scan(
			&i.ID,
			&i.SourceID,
			&i.Day,
			&i.StartMinutes,
			&i.EndMinutes,
			&i.Location,
			&i.CourseCode,
			&i.NormalizedCode,
			&i.Details,
			&i.Lecturer,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countSessionsBySource = `
SELECT COUNT(*) FROM timetable_sessions
WHERE source_id = $1
`

func (q *Queries) CountSessionsBySource(ctx context.Context, sourceID int64) (int64, error) {
	row := q.db.QueryRow(ctx, countSessionsBySource, sourceID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const deleteSessionsBySource = `
DELETE FROM timetable_sessions
WHERE source_id = $1
`

func (q *Queries) DeleteSessionsBySource(ctx context.Context, sourceID int64) error {
	_, err := q.db.Exec(ctx, deleteSessionsBySource, sourceID)
	return err
}

const insertSession = `
INSERT INTO timetable_sessions (
	source_id, day, start_minutes, end_minutes, location,
	course_code, normalized_code, details, lecturer
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

type InsertSessionsParams struct {
	SourceID       int64  `json:"source_id"`
	Day            string `json:"day"`
	StartMinutes   int32  `json:"start_minutes"`
	EndMinutes     int32  `json:"end_minutes"`
	Location       string `json:"location"`
	CourseCode     string `json:"course_code"`
	NormalizedCode string `json:"normalized_code"`
	Details        string `json:"details"`
	Lecturer       string `json:"lecturer"`
}

type InsertSessionsBatchResults struct {
	br     pgx.BatchResults
	tot    int
	closed bool
}

// InsertSessions queues one insert per session on a single batch, the
// usual replace of a whole source's rows in one round trip
func (q *Queries) InsertSessions(ctx context.Context, arg []InsertSessionsParams) *InsertSessionsBatchResults {
	batch := &pgx.Batch{}
	for _, a := range arg {
		vals := []interface{}{
			a.SourceID,
			a.Day,
			a.StartMinutes,
			a.EndMinutes,
			a.Location,
			a.CourseCode,
			a.NormalizedCode,
			a.Details,
			a.Lecturer,
		}
		batch.Queue(insertSession, vals...)
	}
	br := q.db.SendBatch(ctx, batch)
	return &InsertSessionsBatchResults{br, len(arg), false}
}

func (b *InsertSessionsBatchResults) Exec(f func(int, error)) {
	defer b.br.Close()
	for t := 0; t < b.tot; t++ {
		if b.closed {
			if f != nil {
				f(t, pgx.ErrTxClosed)
			}
			continue
		}
		_, err := b.br.Exec()
		if f != nil {
			f(t, err)
		}
	}
}

func (b *InsertSessionsBatchResults) Close() error {
	b.closed = true
	return b.br.Close()
}
