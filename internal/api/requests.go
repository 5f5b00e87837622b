// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

// Request structs with go-playground/validator tags. Query parameters are
// copied into these structs before validation; JSON bodies decode into them
// directly. Field errors are reported by JSON name.
//
//	req := SearchRequest{Query: r.URL.Query().Get("q"), MaxResults: maxResults}
//	if !validateRequest(rw, &req) {
//	    return
//	}

package api

// SearchRequest holds the parameters of GET /search.
type SearchRequest struct {
	Query      string `json:"q" validate:"required,max=200"`
	MaxResults int    `json:"max_results" validate:"min=1,max=50"`
}

// RecommendationsRequest holds the parameters of GET /recommendations.
// The upper bound of Limit is the configured max_top_n.
type RecommendationsRequest struct {
	UserID string `json:"user_id" validate:"required,max=128"`
	Limit  int    `json:"limit" validate:"min=1"`
}

// WatchHistoryRequest is the body of POST /watch_history.
type WatchHistoryRequest struct {
	UserID        string `json:"user_id" validate:"max=128"`
	VideoID       string `json:"video_id" validate:"required,videoid"`
	WatchDuration *int   `json:"watch_duration" validate:"omitempty,min=0"`
	Rating        *int   `json:"rating" validate:"omitempty,min=1,max=5"`
}

// WatchHistoryQuery holds the parameters of GET /watch_history.
type WatchHistoryQuery struct {
	UserID string `json:"user_id" validate:"required,max=128"`
	Limit  int    `json:"limit" validate:"min=1,max=100"`
}

// InteractionRequest is the body of POST /interactions.
type InteractionRequest struct {
	UserID  string   `json:"user_id" validate:"max=128"`
	VideoID string   `json:"video_id" validate:"required,videoid"`
	Type    string   `json:"type" validate:"required,interaction"`
	Weight  *float64 `json:"weight" validate:"omitempty,gt=0,max=100"`
}
