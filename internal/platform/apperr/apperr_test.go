package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	err := New(Conflict, "slot already booked")
	if KindOf(err) != Conflict {
		t.Errorf("expected Conflict, got %v", KindOf(err))
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	inner := New(NotFound, "doctor not found")
	outer := fmt.Errorf("book appointment: %w", inner)
	if KindOf(outer) != NotFound {
		t.Errorf("expected NotFound through wrapping, got %v", KindOf(outer))
	}
}

func TestKindOf_Untyped(t *testing.T) {
	if KindOf(errors.New("connection refused")) != Internal {
		t.Error("untyped errors should be Internal")
	}
}

func TestKindOf_Nil(t *testing.T) {
	if KindOf(nil) != 0 {
		t.Error("nil error should have zero kind")
	}
}

func TestMessage_HidesInternalCause(t *testing.T) {
	err := Wrap(Internal, "query failed", errors.New("pq: relation missing"))
	if Message(err) != "internal server error" {
		t.Errorf("internal cause leaked: %q", Message(err))
	}
}

func TestMessage_Typed(t *testing.T) {
	err := New(Forbidden, "appointment belongs to another patient")
	if Message(err) != "appointment belongs to another patient" {
		t.Errorf("unexpected message: %q", Message(err))
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{Validation, http.StatusBadRequest},
		{NotFound, http.StatusNotFound},
		{Unauthenticated, http.StatusUnauthorized},
		{Forbidden, http.StatusForbidden},
		{Conflict, http.StatusConflict},
		{Internal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(New(tc.kind, "x")); got != tc.want {
			t.Errorf("%v: expected %d, got %d", tc.kind, tc.want, got)
		}
	}
	if HTTPStatus(errors.New("plain")) != http.StatusInternalServerError {
		t.Error("untyped errors should map to 500")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(Internal, "save appointment", cause)
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}
