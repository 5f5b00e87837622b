// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/vidrec/internal/recommend"
)

// WatchHistoryEntry is one row of watch_history. Title and Channel are
// joined from videos and are empty when the video is unknown.
type WatchHistoryEntry struct {
	ID            int64     `json:"id"`
	UserID        string    `json:"user_id"`
	VideoID       string    `json:"video_id"`
	WatchedAt     time.Time `json:"watched_at"`
	WatchDuration *int      `json:"watch_duration,omitempty"`
	Rating        *int      `json:"rating,omitempty"`
	Title         string    `json:"title,omitempty"`
	Channel       string    `json:"channel_title,omitempty"`
}

// AddWatchHistory stores a watch event and the matching view interaction in
// one transaction. A zero WatchedAt is replaced by the current time.
func (db *DB) AddWatchHistory(ctx context.Context, entry WatchHistoryEntry) (_ *WatchHistoryEntry, err error) {
	if entry.UserID == "" || entry.VideoID == "" {
		return nil, fmt.Errorf("%w: user and video ids are required", ErrInvalidWatch)
	}
	if entry.WatchDuration != nil && *entry.WatchDuration < 0 {
		return nil, fmt.Errorf("%w: watch duration must not be negative", ErrInvalidWatch)
	}
	if entry.WatchedAt.IsZero() {
		entry.WatchedAt = db.now()
	}
	entry.WatchedAt = entry.WatchedAt.UTC()

	defer db.observe("insert", "watch_history", time.Now(), &err)

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin watch history: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO watch_history (user_id, video_id, watched_at, watch_duration, rating)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`,
		entry.UserID, entry.VideoID, entry.WatchedAt, nullInt(entry.WatchDuration), nullInt(entry.Rating),
	).Scan(&entry.ID)
	if err != nil {
		return nil, fmt.Errorf("insert watch history: %w", err)
	}

	view := recommend.Interaction{
		UserID:    entry.UserID,
		ItemID:    entry.VideoID,
		Type:      recommend.InteractionView,
		Timestamp: entry.WatchedAt,
		Weight:    recommend.DefaultInteractionWeight,
	}
	if err = insertInteraction(ctx, tx, view); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit watch history: %w", err)
	}
	return &entry, nil
}

// GetWatchHistory returns up to limit watch events of userID, newest first.
func (db *DB) GetWatchHistory(ctx context.Context, userID string, limit int) (_ []WatchHistoryEntry, err error) {
	if limit <= 0 {
		return []WatchHistoryEntry{}, nil
	}
	defer db.observe("select", "watch_history", time.Now(), &err)

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT w.id, w.user_id, w.video_id, w.watched_at, w.watch_duration, w.rating,
		       COALESCE(v.title, ''), COALESCE(v.channel_title, '')
		FROM watch_history w
		LEFT JOIN videos v ON v.video_id = w.video_id
		WHERE w.user_id = ?
		ORDER BY w.watched_at DESC, w.id DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query watch history for %s: %w", userID, err)
	}
	defer closeWithLog(rows, "watch history rows")

	history := make([]WatchHistoryEntry, 0, limit)
	for rows.Next() {
		var (
			e        WatchHistoryEntry
			duration sql.NullInt64
			rating   sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.VideoID, &e.WatchedAt, &duration, &rating, &e.Title, &e.Channel); err != nil {
			return nil, fmt.Errorf("scan watch history: %w", err)
		}
		e.WatchedAt = e.WatchedAt.UTC()
		e.WatchDuration = intPtr(duration)
		e.Rating = intPtr(rating)
		history = append(history, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watch history: %w", err)
	}
	return history, nil
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
