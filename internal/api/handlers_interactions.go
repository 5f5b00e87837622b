// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/vidrec/internal/database"
	"github.com/tomtom215/vidrec/internal/recommend"
)

// RecordInteraction handles POST /interactions.
func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req InteractionRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	req.UserID = userIDParam(req.UserID)
	if !validateRequest(rw, &req) {
		return
	}

	// Already checked by the interaction validation tag.
	kind, err := recommend.ParseInteractionType(req.Type)
	if err != nil {
		rw.ValidationError(err.Error(), map[string]any{"field": "type", "tag": "interaction"})
		return
	}

	in := recommend.Interaction{
		UserID: req.UserID,
		ItemID: req.VideoID,
		Type:   kind,
	}
	if req.Weight != nil {
		in.Weight = *req.Weight
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	if err := h.store.EnsureUser(ctx, req.UserID); err != nil {
		rw.DatabaseError(err)
		return
	}

	stored, err := h.store.RecordInteraction(ctx, in)
	switch {
	case errors.Is(err, database.ErrInvalidInteraction):
		rw.BadRequest(err.Error())
	case err != nil:
		rw.DatabaseError(err)
	default:
		rw.Created(stored)
	}
}
