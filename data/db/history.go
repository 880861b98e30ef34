package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const upsertCourseRegistrationHistory = `
INSERT INTO course_registration_history (
	user_id, source_id, course_codes, display_name, program, level
) VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id, source_id, course_codes) DO UPDATE
SET last_used = now(),
	display_name = EXCLUDED.display_name,
	program = COALESCE(EXCLUDED.program, course_registration_history.program),
	level = COALESCE(EXCLUDED.level, course_registration_history.level)
RETURNING id, user_id, source_id, course_codes, display_name, program, level,
	created_at, last_used
`

type UpsertCourseRegistrationHistoryParams struct {
	UserID      int64       `json:"user_id"`
	SourceID    int64       `json:"source_id"`
	CourseCodes string      `json:"course_codes"`
	DisplayName string      `json:"display_name"`
	Program     pgtype.Text `json:"program"`
	Level       pgtype.Text `json:"level"`
}

// the unique index on (user_id, source_id, course_codes) makes a repeat
// submission of the same sorted code set advance last_used instead of
// inserting a duplicate, even under concurrent calls
func (q *Queries) UpsertCourseRegistrationHistory(
	ctx context.Context,
	arg UpsertCourseRegistrationHistoryParams,
) (CourseRegistrationHistory, error) {
	row := q.db.QueryRow(ctx, upsertCourseRegistrationHistory,
		arg.UserID,
		arg.SourceID,
		arg.CourseCodes,
		arg.DisplayName,
		arg.Program,
		arg.Level,
	)
	var i CourseRegistrationHistory
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.SourceID,
		&i.CourseCodes,
		&i.DisplayName,
		&i.Program,
		&i.Level,
		&i.CreatedAt,
		&i.LastUsed,
	)
	return i, err
}

const getCourseRegistrationHistory = `
SELECT id, user_id, source_id, course_codes, display_name, program, level,
	created_at, last_used
FROM course_registration_history
WHERE id = $1 AND user_id = $2
`

type GetCourseRegistrationHistoryParams struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
}

func (q *Queries) GetCourseRegistrationHistory(
	ctx context.Context,
	arg GetCourseRegistrationHistoryParams,
) (CourseRegistrationHistory, error) {
	row := q.db.QueryRow(ctx, getCourseRegistrationHistory, arg.ID, arg.UserID)
	var i CourseRegistrationHistory
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.SourceID,
		&i.CourseCodes,
		&i.DisplayName,
		&i.Program,
		&i.Level,
		&i.CreatedAt,
		&i.LastUsed,
	)
	return i, err
}

const listRecentHistoryForUser = `
SELECT id, user_id, source_id, course_codes, display_name, program, level,
	created_at, last_used
FROM course_registration_history
WHERE user_id = $1
ORDER BY last_used DESC
LIMIT $2
`

func (q *Queries) ListRecentHistoryForUser(
	ctx context.Context,
	userID int64,
	limit int32,
) ([]CourseRegistrationHistory, error) {
	rows, err := q.db.Query(ctx, listRecentHistoryForUser, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CourseRegistrationHistory
	for rows.Next() {
		var i CourseRegistrationHistory
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.SourceID,
			&i.CourseCodes,
			&i.DisplayName,
			&i.Program,
			&i.Level,
			&i.CreatedAt,
			&i.LastUsed,
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

const touchHistoryLastUsed = `
UPDATE course_registration_history
SET last_used = now()
WHERE id = $1
`

func (q *Queries) TouchHistoryLastUsed(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, touchHistoryLastUsed, id)
	return err
}
