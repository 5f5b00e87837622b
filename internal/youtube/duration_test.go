// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package youtube

import "testing"

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"PT0S", 0, false},
		{"PT45S", 45, false},
		{"PT4M13S", 253, false},
		{"PT1H", 3600, false},
		{"PT1H2M3S", 3723, false},
		{"P1D", 86400, false},
		{"P1DT2H", 93600, false},
		{"P1W", 604800, false},
		{"P", 0, true},
		{"PT", 0, true},
		{"4M13S", 0, true},
		{"PT4.5S", 0, true},
		{"PTXS", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseISODuration(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseISODuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseISODuration(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
