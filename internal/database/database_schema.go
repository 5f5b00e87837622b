// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package database

import (
	"context"
	"fmt"
	"time"
)

// tableNames lists the tables owned by this package.
var tableNames = []string{"users", "videos", "watch_history", "user_video_interactions"}

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// Timestamps are written by the application in UTC. No column relies on a
// CURRENT_TIMESTAMP default.
var tableCreationQueries = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id VARCHAR PRIMARY KEY,
		created_at TIMESTAMP NOT NULL,
		preferences VARCHAR NOT NULL DEFAULT '{}'
	)`,
	`CREATE TABLE IF NOT EXISTS videos (
		video_id VARCHAR PRIMARY KEY,
		title VARCHAR NOT NULL,
		description VARCHAR,
		channel_title VARCHAR,
		tags VARCHAR,
		thumbnail VARCHAR,
		view_count BIGINT,
		like_count BIGINT,
		comment_count BIGINT,
		duration_seconds INTEGER,
		published_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE SEQUENCE IF NOT EXISTS watch_history_id_seq START 1`,
	`CREATE TABLE IF NOT EXISTS watch_history (
		id BIGINT PRIMARY KEY DEFAULT nextval('watch_history_id_seq'),
		user_id VARCHAR NOT NULL,
		video_id VARCHAR NOT NULL,
		watched_at TIMESTAMP NOT NULL,
		watch_duration INTEGER,
		rating INTEGER
	)`,
	`CREATE SEQUENCE IF NOT EXISTS interaction_id_seq START 1`,
	`CREATE TABLE IF NOT EXISTS user_video_interactions (
		id BIGINT PRIMARY KEY DEFAULT nextval('interaction_id_seq'),
		user_id VARCHAR NOT NULL,
		video_id VARCHAR NOT NULL,
		interaction_type VARCHAR NOT NULL,
		interaction_value DOUBLE NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
}

var indexCreationQueries = []string{
	`CREATE INDEX IF NOT EXISTS idx_watch_history_user ON watch_history(user_id, watched_at)`,
	`CREATE INDEX IF NOT EXISTS idx_interactions_user ON user_video_interactions(user_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_interactions_created ON user_video_interactions(created_at)`,
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// createIndexes creates indexes for the read paths of the recommender and API
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range indexCreationQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
