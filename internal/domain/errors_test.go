package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestQueryErrorIsQueryFailed(t *testing.T) {
	cause := errors.New("connection refused: 10.0.0.5:5432")
	err := fmt.Errorf("fetching supply: %w", NewQueryError("supply at height", cause))

	if !errors.Is(err, ErrQueryFailed) {
		t.Error("errors.Is(err, ErrQueryFailed) = false, want true")
	}
	if !errors.Is(err, cause) {
		t.Error("original cause is not reachable through Unwrap")
	}
	if errors.Is(err, ErrDataUnavailable) {
		t.Error("QueryError must not match ErrDataUnavailable")
	}
}

func TestQueryErrorMessageIsGeneric(t *testing.T) {
	err := NewQueryError("latest block", errors.New("password authentication failed for user admin"))
	if strings.Contains(err.Error(), "password") {
		t.Errorf("Error() = %q leaks the underlying message", err.Error())
	}
	if err.Error() != "latest block: query failed" {
		t.Errorf("Error() = %q, want %q", err.Error(), "latest block: query failed")
	}
}

func TestInvalidHeightf(t *testing.T) {
	err := InvalidHeightf("height %d is negative", -3)
	if !errors.Is(err, ErrInvalidHeight) {
		t.Error("InvalidHeightf does not wrap ErrInvalidHeight")
	}
	if !strings.Contains(err.Error(), "-3") {
		t.Errorf("Error() = %q, want height in message", err.Error())
	}
}

func TestUnavailablef(t *testing.T) {
	err := Unavailablef("no supply row at or before height %d", 10)
	if !errors.Is(err, ErrDataUnavailable) {
		t.Error("Unavailablef does not wrap ErrDataUnavailable")
	}
}
