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

const selectVideoColumns = `
	video_id, title, description, channel_title, tags, thumbnail,
	view_count, like_count, comment_count, duration_seconds, published_at`

// GetMetadata returns the stored metadata for itemID, or recommend.ErrNotFound.
func (db *DB) GetMetadata(ctx context.Context, itemID string) (_ *recommend.ItemMetadata, err error) {
	defer db.observe("select", "videos", time.Now(), &err)

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, `SELECT `+selectVideoColumns+` FROM videos WHERE video_id = ?`, itemID)
	item, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, recommend.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get video %s: %w", itemID, err)
	}
	return item, nil
}

// SaveMetadata inserts item unless a row with the same id exists, then
// returns the stored row. An existing row is never overwritten.
func (db *DB) SaveMetadata(ctx context.Context, item *recommend.ItemMetadata) (_ *recommend.ItemMetadata, err error) {
	if item == nil || item.ID == "" {
		return nil, fmt.Errorf("save video: missing id")
	}

	tags, err := encodeTags(item.Tags)
	if err != nil {
		return nil, fmt.Errorf("save video %s: %w", item.ID, err)
	}

	err = func() (err error) {
		defer db.observe("insert", "videos", time.Now(), &err)

		ctx, cancel := db.ensureContext(ctx)
		defer cancel()

		_, err = db.conn.ExecContext(ctx, `
			INSERT INTO videos (
				video_id, title, description, channel_title, tags, thumbnail,
				view_count, like_count, comment_count, duration_seconds, published_at, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (video_id) DO NOTHING`,
			item.ID, item.Title, item.Description, item.Channel, tags, item.Thumbnail,
			item.ViewCount, item.LikeCount, item.CommentCount, item.Duration,
			nullTime(item.PublishedAt), db.now(),
		)
		return err
	}()
	if err != nil {
		return nil, fmt.Errorf("save video %s: %w", item.ID, err)
	}

	return db.GetMetadata(ctx, item.ID)
}

// CatalogCandidates returns up to limit stored video ids, most viewed first.
// Ties are ordered by id.
func (db *DB) CatalogCandidates(ctx context.Context, limit int) (_ []string, err error) {
	if limit <= 0 {
		return nil, nil
	}
	defer db.observe("select", "videos", time.Now(), &err)

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT video_id FROM videos
		ORDER BY COALESCE(view_count, 0) DESC, video_id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer closeWithLog(rows, "catalog rows")

	ids := make([]string, 0, limit)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan catalog id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog: %w", err)
	}
	return ids, nil
}

func scanVideo(row *sql.Row) (*recommend.ItemMetadata, error) {
	var (
		item         recommend.ItemMetadata
		description  sql.NullString
		channel      sql.NullString
		tags         sql.NullString
		thumbnail    sql.NullString
		viewCount    sql.NullInt64
		likeCount    sql.NullInt64
		commentCount sql.NullInt64
		duration     sql.NullInt64
		publishedAt  sql.NullTime
	)

	if err := row.Scan(&item.ID, &item.Title, &description, &channel, &tags, &thumbnail,
		&viewCount, &likeCount, &commentCount, &duration, &publishedAt); err != nil {
		return nil, err
	}

	item.Description = description.String
	item.Channel = channel.String
	item.Thumbnail = thumbnail.String
	item.ViewCount = viewCount.Int64
	item.LikeCount = likeCount.Int64
	item.CommentCount = commentCount.Int64
	item.Duration = int(duration.Int64)
	if publishedAt.Valid {
		t := publishedAt.Time.UTC()
		item.PublishedAt = &t
	}

	decoded, err := decodeTags(tags.String)
	if err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	item.Tags = decoded

	return &item, nil
}

// encodeTags stores tags as a JSON array.
func encodeTags(tags []string) (string, error) {
	if len(tags) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeTags(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(s), &tags); err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, nil
	}
	return tags, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
