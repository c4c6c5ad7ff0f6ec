package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"gorm.io/gorm"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrNotAuthenticated, http.StatusUnauthorized},
		{ErrNotAMember, http.StatusForbidden},
		{ErrNotEligible, http.StatusUnprocessableEntity},
		{ErrConflict, http.StatusConflict},
		{ErrNotFound, http.StatusNotFound},
		{ErrExpired, http.StatusGone},
		{ErrUploadFailed, http.StatusBadGateway},
		{errors.New("something else"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := Status(tc.err); got != tc.want {
			t.Errorf("Status(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestStatusWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("scheduling interview: %w", ErrNotEligible)
	if got := Status(wrapped); got != http.StatusUnprocessableEntity {
		t.Errorf("Status(wrapped) = %d, want 422", got)
	}
}

func TestTranslate(t *testing.T) {
	if err := Translate(nil); err != nil {
		t.Errorf("Translate(nil) = %v, want nil", err)
	}
	if err := Translate(gorm.ErrRecordNotFound); !errors.Is(err, ErrNotFound) {
		t.Errorf("Translate(record not found) = %v, want ErrNotFound", err)
	}
	if err := Translate(gorm.ErrDuplicatedKey); !errors.Is(err, ErrConflict) {
		t.Errorf("Translate(duplicated key) = %v, want ErrConflict", err)
	}
	other := errors.New("disk full")
	if err := Translate(other); err != other {
		t.Errorf("Translate(other) = %v, want passthrough", err)
	}
}
