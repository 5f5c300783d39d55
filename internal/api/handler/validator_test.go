package handler

import (
	"errors"
	"testing"

	"github.com/fanmerch/storefront/internal/core/domain"
)

func TestRequestValidator(t *testing.T) {
	type sample struct {
		Email string `json:"email" validate:"required,email"`
		Note  string `json:"note,omitempty" validate:"max=3"`
	}

	tests := []struct {
		name    string
		in      sample
		wantMsg string
	}{
		{"valid", sample{Email: "a@x.com", Note: "hi"}, ""},
		{"missing", sample{}, "email is required"},
		{"malformed", sample{Email: "nope"}, "email must be a valid email"},
		{"too long", sample{Email: "a@x.com", Note: "long"}, "note must be at most 3 characters"},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.in)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected a validation error, got %v", err)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}
