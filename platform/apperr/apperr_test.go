package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindNotFound, http.StatusNotFound},
		{KindValidation, http.StatusBadRequest},
		{KindBadRequest, http.StatusBadRequest},
		{KindConflict, http.StatusConflict},
		{KindUpstream, http.StatusInternalServerError},
		{KindUnavailable, http.StatusServiceUnavailable},
		{KindInternal, http.StatusInternalServerError},
		{KindUnknown, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := New(tc.kind, "x").HTTPStatus(); got != tc.want {
			t.Fatalf("kind %s: expected status %d, got %d", tc.kind, tc.want, got)
		}
	}
}

func TestGetKindFindsWrappedError(t *testing.T) {
	base := NotFound("lead not found")
	wrapped := fmt.Errorf("management: %w", base)

	if GetKind(wrapped) != KindNotFound {
		t.Fatalf("expected KindNotFound through wrapping, got %s", GetKind(wrapped))
	}
	if !Is(wrapped, KindNotFound) {
		t.Fatalf("expected Is to match wrapped kind")
	}
	if GetKind(errors.New("plain")) != KindUnknown {
		t.Fatalf("expected KindUnknown for untyped error")
	}
}

func TestErrorMessageIncludesOpAndCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Upstream("prospecting engine unavailable", cause).WithOp("campaigns.Run")

	want := "campaigns.Run: prospecting engine unavailable: connection refused"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to reach the cause")
	}
}
