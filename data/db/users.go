package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const authInsertUser = `
INSERT INTO users (username, encrypted_password, email, role)
VALUES ($1, $2, $3, $4)
`

type AuthInsertUserParams struct {
	Username          string      `json:"username"`
	EncryptedPassword string      `json:"encrypted_password"`
	Email             pgtype.Text `json:"email"`
	Role              string      `json:"role"`
}

func (q *Queries) AuthInsertUser(ctx context.Context, arg AuthInsertUserParams) error {
	_, err := q.db.Exec(ctx, authInsertUser,
		arg.Username,
		arg.EncryptedPassword,
		arg.Email,
		arg.Role,
	)
	return err
}

const getUserByUsername = `
SELECT id, username, encrypted_password, email, role, is_active, created_at
FROM users
WHERE username = $1
`

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByUsername, username)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.EncryptedPassword,
		&i.Email,
		&i.Role,
		&i.IsActive,
		&i.CreatedAt,
	)
	return i, err
}

const listUsers = `
SELECT id, username, encrypted_password, email, role, is_active, created_at
FROM users
ORDER BY id
`

func (q *Queries) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := q.db.Query(ctx, listUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []User
	for rows.Next() {
		var i User
		if err := rows.Scan(
			&i.ID,
			&i.Username,
			&i.EncryptedPassword,
			&i.Email,
			&i.Role,
			&i.IsActive,
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

const listUsersByRole = `
SELECT id, username, encrypted_password, email, role, is_active, created_at
FROM users
WHERE role = $1
ORDER BY id
`

func (q *Queries) ListUsersByRole(ctx context.Context, role string) ([]User, error) {
	rows, err := q.db.Query(ctx, listUsersByRole, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []User
	for rows.Next() {
		var i User
		if err := rows.Scan(
			&i.ID,
			&i.Username,
			&i.EncryptedPassword,
			&i.Email,
			&i.Role,
			&i.IsActive,
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

const countUsersByRole = `
SELECT role, COUNT(*) AS count
FROM users
GROUP BY role
ORDER BY role
`

type CountUsersByRoleRow struct {
	Role  string `json:"role"`
	Count int64  `json:"count"`
}

func (q *Queries) CountUsersByRole(ctx context.Context) ([]CountUsersByRoleRow, error) {
	rows, err := q.db.Query(ctx, countUsersByRole)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CountUsersByRoleRow
	for rows.Next() {
		var i CountUsersByRoleRow
		if err := rows.Scan(&i.Role, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateUserPassword = `
UPDATE users
SET encrypted_password = $2
WHERE username = $1
`

func (q *Queries) UpdateUserPassword(ctx context.Context, username string, encryptedPassword string) error {
	_, err := q.db.Exec(ctx, updateUserPassword, username, encryptedPassword)
	return err
}
