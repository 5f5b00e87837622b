// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/vidrec/internal/database"
	"github.com/tomtom215/vidrec/internal/logging"
)

// defaultHistoryLimit is the page size of GET /watch_history.
const defaultHistoryLimit = 20

// AddWatchHistory handles POST /watch_history.
//
// The user row is created on first sighting and the video's metadata is
// resolved best-effort, so an unreachable YouTube API never blocks the
// write. The stored watch also appends a view interaction.
func (h *Handler) AddWatchHistory(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req WatchHistoryRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	req.UserID = userIDParam(req.UserID)
	if !validateRequest(rw, &req) {
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	if err := h.store.EnsureUser(ctx, req.UserID); err != nil {
		rw.DatabaseError(err)
		return
	}

	entry := database.WatchHistoryEntry{
		UserID:        req.UserID,
		VideoID:       req.VideoID,
		WatchDuration: req.WatchDuration,
		Rating:        req.Rating,
	}
	if h.resolver != nil {
		if res := h.resolver.Resolve(ctx, req.VideoID); res.Found() {
			entry.Title = res.Meta.Title
			entry.Channel = res.Meta.Channel
		}
	}

	stored, err := h.store.AddWatchHistory(ctx, entry)
	switch {
	case errors.Is(err, database.ErrInvalidWatch):
		rw.BadRequest(err.Error())
		return
	case err != nil:
		rw.DatabaseError(err)
		return
	}
	stored.Title, stored.Channel = entry.Title, entry.Channel

	logging.Ctx(ctx).Debug().
		Str("user_id", sanitizeLogValue(req.UserID)).
		Str("video_id", req.VideoID).
		Msg("Watch recorded")

	rw.Created(stored)
}

// GetWatchHistory handles GET /watch_history?user_id=&limit=
func (h *Handler) GetWatchHistory(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit, ok := getIntParam(r, "limit", defaultHistoryLimit)
	if !ok {
		rw.ValidationError("limit must be an integer", map[string]any{"field": "limit"})
		return
	}
	req := WatchHistoryQuery{
		UserID: userIDParam(r.URL.Query().Get("user_id")),
		Limit:  limit,
	}
	if !validateRequest(rw, &req) {
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	history, err := h.store.GetWatchHistory(ctx, req.UserID, req.Limit)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	if history == nil {
		history = []database.WatchHistoryEntry{}
	}

	rw.Success(map[string]any{
		"user_id": req.UserID,
		"history": history,
		"count":   len(history),
	})
}
