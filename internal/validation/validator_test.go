// Hubtally - Classroom Button Event Ingestion and Aggregation
// Copyright 2026 Hubtally Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hubtally/hubtally

package validation

import (
	"errors"
	"strings"
	"testing"
)

type sampleRequest struct {
	DeviceID  string `validate:"required"`
	ClickType string `validate:"required,oneof=click double_click hold"`
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(&sampleRequest{DeviceID: "dev-1", ClickType: "click"})
	if err != nil {
		t.Errorf("ValidateStruct: %v", err)
	}
}

func TestValidateStruct_CollectsFieldErrors(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(&sampleRequest{ClickType: "triple_click"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	var re *RequestError
	if !errors.As(err, &re) {
		t.Fatalf("error type %T, want *RequestError", err)
	}
	if len(re.Fields()) != 2 {
		t.Fatalf("field errors = %d, want 2", len(re.Fields()))
	}

	msg := re.Error()
	if !strings.Contains(msg, "DeviceID is required") {
		t.Errorf("message %q missing required-field text", msg)
	}
	if !strings.Contains(msg, "ClickType must be one of") {
		t.Errorf("message %q missing oneof text", msg)
	}
}

func TestValidateStruct_Unvalidatable(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(42)
	if err == nil {
		t.Fatal("expected error for non-struct input")
	}
	var re *RequestError
	if errors.As(err, &re) {
		t.Error("non-struct input must not produce a RequestError")
	}
}
