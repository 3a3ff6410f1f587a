package validator

import (
	"strings"
	"testing"
)

type grantPayload struct {
	UserID      string `json:"user_id" validate:"required,uuid4"`
	AccessLevel string `json:"access_level" validate:"required,oneof=read write"`
}

func TestValidateStructPasses(t *testing.T) {
	payload := grantPayload{
		UserID:      "7f9c24e5-2f06-4a8f-9c9a-0f6c5e3c21aa",
		AccessLevel: "write",
	}

	if err := ValidateStruct(payload); err != nil {
		t.Fatalf("expected payload to validate, got %v", err)
	}
}

func TestValidateStructReportsJSONFieldNames(t *testing.T) {
	payload := grantPayload{AccessLevel: "owner"}

	err := ValidateStruct(payload)
	if err == nil {
		t.Fatal("expected validation failure")
	}

	failures, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(failures) != 2 {
		t.Fatalf("expected 2 failures, got %d", len(failures))
	}

	msg := err.Error()
	if !strings.Contains(msg, "user_id") || !strings.Contains(msg, "access_level") {
		t.Fatalf("expected JSON field names in message, got %q", msg)
	}
}
