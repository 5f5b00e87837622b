// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports that an item or user has no data. It is never fatal.
	ErrNotFound = errors.New("not found")

	// ErrFetchFailed wraps failures of an external collaborator.
	ErrFetchFailed = errors.New("external fetch failed")
)

// EngineError is returned when the engine cannot produce a consistent result
// set, for example when every scorer fails.
type EngineError struct {
	// Op is the pipeline stage that failed.
	Op string

	// UserID is the user the request was made for.
	UserID string

	// Err is the underlying cause. It may join several errors.
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("recommend %s for user %q: %v", e.Op, e.UserID, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// IsEngineError reports whether err is or wraps an *EngineError.
func IsEngineError(err error) bool {
	var ee *EngineError
	return errors.As(err, &ee)
}
