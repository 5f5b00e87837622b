// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package api

import (
	"context"
	"errors"
	"net/http"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/vidrec/internal/logging"
	"github.com/tomtom215/vidrec/internal/recommend"
	"github.com/tomtom215/vidrec/internal/youtube"
)

// defaultSearchResults is the page size when max_results is absent.
const defaultSearchResults = 10

// Search handles GET /search?q=&max_results=
//
// Results are persisted to the metadata store (insert-if-absent) so that
// later watches and recommendations of these videos need no further API call.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	maxResults, ok := getIntParam(r, "max_results", defaultSearchResults)
	if !ok {
		rw.ValidationError("max_results must be an integer", map[string]any{"field": "max_results"})
		return
	}
	req := SearchRequest{Query: r.URL.Query().Get("q"), MaxResults: maxResults}
	if !validateRequest(rw, &req) {
		return
	}

	if h.searcher == nil {
		rw.ServiceUnavailable(ErrSearchDisabled.Error())
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	videos, err := h.searcher.Search(ctx, req.Query, req.MaxResults)
	if err != nil {
		h.writeSearchError(rw, err)
		return
	}

	h.persistSearchResults(ctx, videos)

	if videos == nil {
		videos = []*recommend.ItemMetadata{}
	}
	rw.Success(map[string]any{
		"query":  req.Query,
		"videos": videos,
		"count":  len(videos),
	})
}

func (h *Handler) writeSearchError(rw *ResponseWriter, err error) {
	switch {
	case errors.Is(err, youtube.ErrQuotaExceeded):
		rw.Error(http.StatusServiceUnavailable, ErrCodeQuotaExceeded, "YouTube API quota exceeded")
	case errors.Is(err, youtube.ErrRateLimited):
		rw.Error(http.StatusServiceUnavailable, ErrCodeTooManyRequests, "YouTube API rate limited, retry later")
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		rw.ServiceUnavailable("YouTube API temporarily unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		rw.Error(http.StatusGatewayTimeout, ErrCodeExternalServiceFail, "YouTube API timed out")
	default:
		rw.ExternalServiceError("youtube", err)
	}
}

// persistSearchResults saves results best-effort; failures are logged only.
func (h *Handler) persistSearchResults(ctx context.Context, videos []*recommend.ItemMetadata) {
	if h.metadata == nil {
		return
	}
	logger := logging.Ctx(ctx)
	for _, v := range videos {
		if v == nil || v.ID == "" {
			continue
		}
		if _, err := h.metadata.SaveMetadata(ctx, v); err != nil {
			logger.Warn().Err(err).Str("video_id", v.ID).Msg("Failed to save search result metadata")
		}
	}
}
