// Reelix - Hybrid Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelix

package validation

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	Emotion string `validate:"required,min=2,max=32"`
	Limit   int    `validate:"omitempty,min=1,max=100"`
}

func TestValidateStructPasses(t *testing.T) {
	req := sampleRequest{Emotion: "happy", Limit: 10}
	if err := ValidateStruct(&req); err != nil {
		t.Fatalf("ValidateStruct() error = %v, want nil", err)
	}
}

func TestValidateStructOmitemptySkipsZeroValue(t *testing.T) {
	req := sampleRequest{Emotion: "sad"}
	if err := ValidateStruct(&req); err != nil {
		t.Fatalf("ValidateStruct() error = %v, want nil for omitted limit", err)
	}
}

func TestValidateStructSingleError(t *testing.T) {
	req := sampleRequest{Emotion: ""}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("ValidateStruct() error = nil, want required failure")
	}

	errs := err.Errors()
	if len(errs) != 1 {
		t.Fatalf("Errors() length = %d, want 1", len(errs))
	}
	if errs[0].Field() != "Emotion" || errs[0].Tag() != "required" {
		t.Errorf("error = %s/%s, want Emotion/required", errs[0].Field(), errs[0].Tag())
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_FAILED" {
		t.Errorf("Code = %q, want VALIDATION_FAILED", apiErr.Code)
	}
	if apiErr.Message != "Emotion is required" {
		t.Errorf("Message = %q, want %q", apiErr.Message, "Emotion is required")
	}
}

func TestValidateStructMultipleErrors(t *testing.T) {
	req := sampleRequest{Emotion: "x", Limit: 500}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("ValidateStruct() error = nil, want two failures")
	}

	if len(err.Errors()) != 2 {
		t.Fatalf("Errors() length = %d, want 2", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	if !strings.Contains(apiErr.Message, "Emotion") || !strings.Contains(apiErr.Message, "Limit") {
		t.Errorf("Message = %q, want both field names", apiErr.Message)
	}
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Errorf("Details missing fields list: %v", apiErr.Details)
	}
}

func TestTranslateMinMaxMessages(t *testing.T) {
	req := sampleRequest{Emotion: "a"}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("ValidateStruct() error = nil, want min failure")
	}
	if got := err.Errors()[0].Error(); got != "Emotion must be at least 2 characters" {
		t.Errorf("message = %q, want character-count phrasing for strings", got)
	}
}
