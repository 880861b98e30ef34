package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// queries are written by hand in the shape sqlc would generate so the
// persistence layer stays one flat set of typed calls

const createTimetableSource = `
INSERT INTO timetable_sources (
	academic_year, semester, display_name, timetable_type, description,
	file_path, uploader_id, status
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, academic_year, semester, display_name, timetable_type, description,
	file_path, uploader_id, status, events_parsed, total_events, created_at
`

type CreateTimetableSourceParams struct {
	AcademicYear  string      `json:"academic_year"`
	Semester      string      `json:"semester"`
	DisplayName   string      `json:"display_name"`
	TimetableType string      `json:"timetable_type"`
	Description   pgtype.Text `json:"description"`
	FilePath      string      `json:"file_path"`
	UploaderID    pgtype.Int8 `json:"uploader_id"`
	Status        string      `json:"status"`
}

func (q *Queries) CreateTimetableSource(
	ctx context.Context,
	arg CreateTimetableSourceParams,
) (TimetableSource, error) {
	row := q.db.QueryRow(ctx, createTimetableSource,
		arg.AcademicYear,
		arg.Semester,
		arg.DisplayName,
		arg.TimetableType,
		arg.Description,
		arg.FilePath,
		arg.UploaderID,
		arg.Status,
	)
	var i TimetableSource
	err := row.Scan(
		&i.ID,
		&i.AcademicYear,
		&i.Semester,
		&i.DisplayName,
		&i.TimetableType,
		&i.Description,
		&i.FilePath,
		&i.UploaderID,
		&i.Status,
		&i.EventsParsed,
		&i.TotalEvents,
		&i.CreatedAt,
	)
	return i, err
}

const getTimetableSource = `
SELECT id, academic_year, semester, display_name, timetable_type, description,
	file_path, uploader_id, status, events_parsed, total_events, created_at
FROM timetable_sources
WHERE id = $1
`

func (q *Queries) GetTimetableSource(ctx context.Context, id int64) (TimetableSource, error) {
	row := q.db.QueryRow(ctx, getTimetableSource, id)
	var i TimetableSource
	err := row.Scan(
		&i.ID,
		&i.AcademicYear,
		&i.Semester,
		&i.DisplayName,
		&i.TimetableType,
		&i.Description,
		&i.FilePath,
		&i.UploaderID,
		&i.Status,
		&i.EventsParsed,
		&i.TotalEvents,
		&i.CreatedAt,
	)
	return i, err
}

const listTimetableSources = `
SELECT id, academic_year, semester, display_name, timetable_type, description,
	file_path, uploader_id, status, events_parsed, total_events, created_at
FROM timetable_sources
ORDER BY created_at DESC
`

func (q *Queries) ListTimetableSources(ctx context.Context) ([]TimetableSource, error) {
	rows, err := q.db.Query(ctx, listTimetableSources)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TimetableSource
	for rows.Next() {
		var i TimetableSource
		if err := rows.Scan(
			&i.ID,
			&i.AcademicYear,
			&i.Semester,
			&i.DisplayName,
			&i.TimetableType,
			&i.Description,
			&i.FilePath,
			&i.UploaderID,
			&i.Status,
			&i.EventsParsed,
			&i.TotalEvents,
			&i.CreatedAt,
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

const listCompletedTimetableSources = `
SELECT id, academic_year, semester, display_name, timetable_type, description,
	file_path, uploader_id, status, events_parsed, total_events, created_at
FROM timetable_sources
WHERE status = 'completed'
ORDER BY created_at DESC
`

func (q *Queries) ListCompletedTimetableSources(ctx context.Context) ([]TimetableSource, error) {
	rows, err := q.db.Query(ctx, listCompletedTimetableSources)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TimetableSource
	for rows.Next() {
		var i TimetableSource
		if err := rows.Scan(
			&i.ID,
			&i.AcademicYear,
			&i.Semester,
			&i.DisplayName,
			&i.TimetableType,
			&i.Description,
			&i.FilePath,
			&i.UploaderID,
			&i.Status,
			&i.EventsParsed,
			&i.TotalEvents,
			&i.CreatedAt,
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

const updateTimetableSourceStatus = `
UPDATE timetable_sources
SET status = $2
WHERE id = $1
`

func (q *Queries) UpdateTimetableSourceStatus(ctx context.Context, id int64, status string) error {
	_, err := q.db.Exec(ctx, updateTimetableSourceStatus, id, status)
	return err
}

const markTimetableSourceParsed = `
UPDATE timetable_sources
SET status = 'completed', events_parsed = TRUE, total_events = $2
WHERE id = $1
`

func (q *Queries) MarkTimetableSourceParsed(ctx context.Context, id int64, totalEvents int32) error {
	_, err := q.db.Exec(ctx, markTimetableSourceParsed, id, totalEvents)
	return err
}

const resetTimetableSourceParse = `
UPDATE timetable_sources
SET status = 'processing', events_parsed = FALSE, total_events = 0
WHERE id = $1
`

// puts a source back into its pre-ingestion state, used when a new file
// replaces the old one
func (q *Queries) ResetTimetableSourceParse(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, resetTimetableSourceParse, id)
	return err
}

const updateTimetableSourceMeta = `
UPDATE timetable_sources
SET academic_year = $2, semester = $3, display_name = $4,
	timetable_type = $5, description = $6
WHERE id = $1
`

type UpdateTimetableSourceMetaParams struct {
	ID            int64       `json:"id"`
	AcademicYear  string      `json:"academic_year"`
	Semester      string      `json:"semester"`
	DisplayName   string      `json:"display_name"`
	TimetableType string      `json:"timetable_type"`
	Description   pgtype.Text `json:"description"`
}

func (q *Queries) UpdateTimetableSourceMeta(
	ctx context.Context,
	arg UpdateTimetableSourceMetaParams,
) error {
	_, err := q.db.Exec(ctx, updateTimetableSourceMeta,
		arg.ID,
		arg.AcademicYear,
		arg.Semester,
		arg.DisplayName,
		arg.TimetableType,
		arg.Description,
	)
	return err
}

const updateTimetableSourceFile = `
UPDATE timetable_sources
SET file_path = $2
WHERE id = $1
`

func (q *Queries) UpdateTimetableSourceFile(ctx context.Context, id int64, filePath string) error {
	_, err := q.db.Exec(ctx, updateTimetableSourceFile, id, filePath)
	return err
}

const deleteTimetableSource = `
DELETE FROM timetable_sources
WHERE id = $1
`

// sessions and history rows go with it through the fk cascade
func (q *Queries) DeleteTimetableSource(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, deleteTimetableSource, id)
	return err
}
