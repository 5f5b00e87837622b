// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package database

import (
	"errors"
	"io"

	"github.com/tomtom215/vidrec/internal/logging"
)

var (
	// ErrInvalidInteraction is returned for interactions that cannot be stored.
	ErrInvalidInteraction = errors.New("invalid interaction")

	// ErrInvalidWatch is returned for watch history entries that cannot be stored.
	ErrInvalidWatch = errors.New("invalid watch history entry")
)

// closeWithLog closes a resource and logs any error
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and ignores any error.
// Use this in error paths where Close() errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
