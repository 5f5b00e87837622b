// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vidrec/internal/recommend"
)

// User is a row of the users table.
type User struct {
	ID          string         `json:"user_id"`
	CreatedAt   time.Time      `json:"created_at"`
	Preferences map[string]any `json:"preferences"`
}

// EnsureUser creates the user row if it does not exist. It is idempotent.
func (db *DB) EnsureUser(ctx context.Context, userID string) (err error) {
	if userID == "" {
		return fmt.Errorf("ensure user: empty id")
	}
	defer db.observe("insert", "users", time.Now(), &err)

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO users (user_id, created_at, preferences)
		VALUES (?, ?, '{}')
		ON CONFLICT (user_id) DO NOTHING`, userID, db.now())
	if err != nil {
		return fmt.Errorf("ensure user %s: %w", userID, err)
	}
	return nil
}

// GetUser returns the user row, or recommend.ErrNotFound.
func (db *DB) GetUser(ctx context.Context, userID string) (_ *User, err error) {
	defer db.observe("select", "users", time.Now(), &err)

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var (
		u     User
		prefs string
	)
	err = db.conn.QueryRowContext(ctx,
		`SELECT user_id, created_at, preferences FROM users WHERE user_id = ?`, userID,
	).Scan(&u.ID, &u.CreatedAt, &prefs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, recommend.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	}

	u.CreatedAt = u.CreatedAt.UTC()
	u.Preferences = map[string]any{}
	if prefs != "" {
		if err := json.Unmarshal([]byte(prefs), &u.Preferences); err != nil {
			return nil, fmt.Errorf("decode preferences for %s: %w", userID, err)
		}
	}
	return &u, nil
}
