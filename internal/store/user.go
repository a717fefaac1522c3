// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"myweblog/internal/models"
)

// UserStore reads and writes the users of a web log.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, web_log_id, email, first_name, last_name, preferred_name, created_at`

func scanUser(scanner rowScanner) (*models.WebLogUser, error) {
	var u models.WebLogUser
	err := scanner.Scan(&u.ID, &u.WebLogID, &u.Email, &u.FirstName, &u.LastName, &u.PreferredName, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindDisplayNames maps each of ids that belongs to the web log to the
// user's display name, in a single query.
func (s *UserStore) FindDisplayNames(ctx context.Context, webLogID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM web_log_users
		WHERE web_log_id = $1 AND id = ANY($2::uuid[])`, webLogID, uuidStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("find display names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		names[u.ID] = u.DisplayName()
	}
	return names, rows.Err()
}

// Create inserts a user and returns it as stored.
func (s *UserStore) Create(ctx context.Context, u *models.WebLogUser) (*models.WebLogUser, error) {
	created, err := scanUser(s.db.QueryRowContext(ctx, `
		INSERT INTO web_log_users (web_log_id, email, first_name, last_name, preferred_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		u.WebLogID, u.Email, u.FirstName, u.LastName, u.PreferredName,
	))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}
