// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package database

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/vidrec/internal/recommend"
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// RecordInteraction appends one interaction to the log.
// A zero Timestamp is replaced by the current time and a zero Weight by
// recommend.DefaultInteractionWeight. The stored interaction is returned.
func (db *DB) RecordInteraction(ctx context.Context, in recommend.Interaction) (_ recommend.Interaction, err error) {
	in, err = db.normalizeInteraction(in)
	if err != nil {
		return recommend.Interaction{}, err
	}

	defer db.observe("insert", "user_video_interactions", time.Now(), &err)

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if err := insertInteraction(ctx, db.conn, in); err != nil {
		return recommend.Interaction{}, err
	}
	return in, nil
}

func (db *DB) normalizeInteraction(in recommend.Interaction) (recommend.Interaction, error) {
	if in.UserID == "" || in.ItemID == "" {
		return in, fmt.Errorf("%w: user and video ids are required", ErrInvalidInteraction)
	}
	if !in.Type.Valid() {
		return in, fmt.Errorf("%w: unknown type %q", ErrInvalidInteraction, in.Type)
	}
	if math.IsNaN(in.Weight) || math.IsInf(in.Weight, 0) || in.Weight < 0 {
		return in, fmt.Errorf("%w: weight must be a finite positive number", ErrInvalidInteraction)
	}
	if in.Weight == 0 {
		in.Weight = recommend.DefaultInteractionWeight
	}
	if in.Timestamp.IsZero() {
		in.Timestamp = db.now()
	}
	in.Timestamp = in.Timestamp.UTC()
	return in, nil
}

func insertInteraction(ctx context.Context, ex execer, in recommend.Interaction) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO user_video_interactions (user_id, video_id, interaction_type, interaction_value, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		in.UserID, in.ItemID, in.Type.String(), in.Weight, in.Timestamp)
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

// InteractionsForUser returns up to limit interactions of userID, newest first.
func (db *DB) InteractionsForUser(ctx context.Context, userID string, limit int) (_ []recommend.Interaction, err error) {
	if limit <= 0 {
		return nil, nil
	}
	defer db.observe("select", "user_video_interactions", time.Now(), &err)

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT user_id, video_id, interaction_type, interaction_value, created_at
		FROM user_video_interactions
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query interactions for %s: %w", userID, err)
	}
	return scanInteractions(rows)
}

// AllInteractions returns up to limit interactions across all users, newest first.
func (db *DB) AllInteractions(ctx context.Context, limit int) (_ []recommend.Interaction, err error) {
	if limit <= 0 {
		return nil, nil
	}
	defer db.observe("select", "user_video_interactions", time.Now(), &err)

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT user_id, video_id, interaction_type, interaction_value, created_at
		FROM user_video_interactions
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	return scanInteractions(rows)
}

func scanInteractions(rows *sql.Rows) ([]recommend.Interaction, error) {
	defer closeWithLog(rows, "interaction rows")

	var interactions []recommend.Interaction
	for rows.Next() {
		var (
			in  recommend.Interaction
			typ string
		)
		if err := rows.Scan(&in.UserID, &in.ItemID, &typ, &in.Weight, &in.Timestamp); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		in.Type = recommend.InteractionType(typ)
		in.Timestamp = in.Timestamp.UTC()
		interactions = append(interactions, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return interactions, nil
}
