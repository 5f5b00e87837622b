// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same instance")
	}
}

type interactionRequest struct {
	UserID string  `json:"user_id" validate:"required,max=16"`
	ItemID string  `json:"video_id" validate:"required,videoid"`
	Type   string  `json:"interaction_type" validate:"required,interaction"`
	Weight float64 `json:"weight" validate:"gte=0"`
	Limit  int     `validate:"min=1,max=50"`
}

func validRequest() interactionRequest {
	return interactionRequest{
		UserID: "alice",
		ItemID: "dQw4w9WgXcQ",
		Type:   "Like",
		Weight: 1,
		Limit:  10,
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*interactionRequest)
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{"valid", func(*interactionRequest) {}, "", "", ""},
		{"missing user", func(r *interactionRequest) { r.UserID = "" }, "user_id", "required", "user_id is required"},
		{"long user", func(r *interactionRequest) { r.UserID = strings.Repeat("u", 17) }, "user_id", "max", "user_id must be at most 16 characters"},
		{"short video id", func(r *interactionRequest) { r.ItemID = "abc" }, "video_id", "videoid", "video_id must be an 11 character video id"},
		{"bad video id chars", func(r *interactionRequest) { r.ItemID = "dQw4w9WgXc!" }, "video_id", "videoid", ""},
		{"unknown interaction", func(r *interactionRequest) { r.Type = "bookmark" }, "interaction_type", "interaction", "interaction_type must be one of: view, like, dislike, share"},
		{"negative weight", func(r *interactionRequest) { r.Weight = -1 }, "weight", "gte", "weight must be greater than or equal to 0"},
		{"limit too large", func(r *interactionRequest) { r.Limit = 51 }, "Limit", "max", "Limit must be at most 50"},
		{"limit too small", func(r *interactionRequest) { r.Limit = 0 }, "Limit", "min", "Limit must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			verr := ValidateStruct(&req)

			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() unexpected error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() expected error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField || errs[0].Tag() != tt.wantTag {
				t.Errorf("error = %s/%s, want %s/%s", errs[0].Field(), errs[0].Tag(), tt.wantField, tt.wantTag)
			}
			if tt.wantMsg != "" && errs[0].Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	req := validRequest()
	req.UserID = ""
	verr := ValidateStruct(&req)
	if verr == nil {
		t.Fatal("expected error")
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Details["field"] != "user_id" {
		t.Errorf("Details[field] = %v, want user_id", apiErr.Details["field"])
	}

	req = validRequest()
	req.UserID = ""
	req.ItemID = ""
	verr = ValidateStruct(&req)
	if verr == nil {
		t.Fatal("expected error")
	}
	apiErr = verr.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]any)
	if !ok || len(fields) != 2 {
		t.Fatalf("Details[fields] = %v, want two entries", apiErr.Details["fields"])
	}
	if !strings.Contains(apiErr.Message, "user_id is required") || !strings.Contains(apiErr.Message, "video_id is required") {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestRequestValidationError_Empty(t *testing.T) {
	verr := &RequestValidationError{}
	if verr.Error() != "validation failed" {
		t.Errorf("Error() = %q", verr.Error())
	}
	if verr.ToAPIError().Message != "Validation failed" {
		t.Errorf("ToAPIError().Message = %q", verr.ToAPIError().Message)
	}
}

func TestIsVideoID(t *testing.T) {
	tests := map[string]bool{
		"dQw4w9WgXcQ":  true,
		"2vjPBrBU-TM":  true,
		"09R8_2nJtjg":  true,
		"":             false,
		"short":        false,
		"dQw4w9WgXcQQ": false,
		"dQw4w9WgX Q":  false,
	}
	for in, want := range tests {
		if got := IsVideoID(in); got != want {
			t.Errorf("IsVideoID(%q) = %v, want %v", in, got, want)
		}
	}
}
