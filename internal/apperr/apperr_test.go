package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{Duplicate("taken"), http.StatusConflict},
		{InvalidCredentials(), http.StatusUnauthorized},
		{NoToken(), http.StatusUnauthorized},
		{InvalidToken(), http.StatusUnauthorized},
		{IdentityNotFound(), http.StatusUnauthorized},
		{NotFound("gone"), http.StatusNotFound},
		{Forbidden("nope"), http.StatusForbidden},
		{Store("boom", errors.New("db down")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, got)
		}
	}
}

func TestWrappedErrorsKeepKind(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFound("post not found"))
	if !IsKind(err, KindNotFound) {
		t.Fatalf("wrapped error must keep its kind")
	}
	if HTTPStatus(err) != http.StatusNotFound {
		t.Fatalf("wrapped error must keep its status")
	}
}

func TestStoreErrorHidesCauseInMessage(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Store("fetch post failed", cause)
	if err.Error() != "fetch post failed" {
		t.Fatalf("store error message must be the safe one, got %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause must stay reachable for logging")
	}
}
