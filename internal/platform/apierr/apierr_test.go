package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAsFindsWrappedError(t *testing.T) {
	base := NotFound("manual_not_found", "manual not found")
	wrapped := fmt.Errorf("view manual: %w", base)

	got, ok := As(wrapped)
	if !ok {
		t.Fatalf("expected wrapped api error to be found")
	}
	if got.Status != http.StatusNotFound || got.Code != "manual_not_found" {
		t.Fatalf("unexpected api error: status=%d code=%q", got.Status, got.Code)
	}
	if got.Error() != "manual not found" {
		t.Fatalf("unexpected message: %q", got.Error())
	}
}

func TestAsMissesPlainErrors(t *testing.T) {
	if _, ok := As(errors.New("boom")); ok {
		t.Fatalf("plain error must not be treated as api error")
	}
}

func TestErrorFallsBackToCode(t *testing.T) {
	e := New(http.StatusTeapot, "teapot", nil)
	if e.Error() != "teapot" {
		t.Fatalf("want=teapot got=%q", e.Error())
	}
}
