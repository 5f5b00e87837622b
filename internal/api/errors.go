// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package api

import "errors"

var (
	// ErrSearchDisabled indicates no YouTube API key is configured
	ErrSearchDisabled = errors.New("youtube search is not configured")

	// ErrBodyTooLarge indicates a request body above maxBodyBytes
	ErrBodyTooLarge = errors.New("request body too large")
)
