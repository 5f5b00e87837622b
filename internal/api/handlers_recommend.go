// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package api

import (
	"fmt"
	"net/http"

	"github.com/tomtom215/vidrec/internal/logging"
	"github.com/tomtom215/vidrec/internal/recommend"
)

// Recommendations handles GET /recommendations?user_id=&limit=
// Returns personalized recommendations, or popular candidates for users
// without view history.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit, ok := getIntParam(r, "limit", h.limits.DefaultTopN)
	if !ok {
		rw.ValidationError("limit must be an integer", map[string]any{"field": "limit"})
		return
	}
	req := RecommendationsRequest{
		UserID: userIDParam(r.URL.Query().Get("user_id")),
		Limit:  limit,
	}
	if !validateRequest(rw, &req) {
		return
	}
	if req.Limit > h.limits.MaxTopN {
		rw.ValidationError(fmt.Sprintf("limit must be at most %d", h.limits.MaxTopN),
			map[string]any{"field": "limit", "tag": "max"})
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	recs, err := h.recommender.GetRecommendations(ctx, req.UserID, req.Limit)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("user_id", sanitizeLogValue(req.UserID)).Msg("Recommendation failed")
		rw.Error(http.StatusInternalServerError, ErrCodeRecommendationError, "Failed to generate recommendations")
		return
	}

	if recs == nil {
		recs = []recommend.EnrichedRecommendation{}
	}
	rw.Success(map[string]any{
		"user_id":         req.UserID,
		"recommendations": recs,
		"count":           len(recs),
	})
}
