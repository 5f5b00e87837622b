// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package youtube

import (
	"fmt"
	"regexp"
	"strconv"
)

// isoDurationPattern matches the ISO-8601 durations YouTube emits, e.g.
// PT4M13S, PT1H2M, P1DT2H. Years and months never occur for videos.
var isoDurationPattern = regexp.MustCompile(`^P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseISODuration converts an ISO-8601 duration into whole seconds.
// An empty string is zero.
func ParseISODuration(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	m := isoDurationPattern.FindStringSubmatch(s)
	if m == nil || s == "P" || s == "PT" {
		return 0, fmt.Errorf("invalid ISO-8601 duration %q", s)
	}

	units := [...]int{7 * 24 * 3600, 24 * 3600, 3600, 60, 1}
	total := 0
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, fmt.Errorf("invalid ISO-8601 duration %q: %w", s, err)
		}
		total += n * unit
	}
	return total, nil
}
