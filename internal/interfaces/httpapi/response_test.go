package httpapi

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/strideleague/strideleague/internal/usecase"
)

func TestMapError_Kinds(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
	}{
		{"unauthenticated", fmt.Errorf("%w: missing header", errUnauthenticated), http.StatusUnauthorized, "unauthenticated"},
		{"invalid input", fmt.Errorf("%w: bad week", usecase.ErrInvalidInput), http.StatusBadRequest, "invalidInput"},
		{"not found", fmt.Errorf("%w: league x", usecase.ErrNotFound), http.StatusNotFound, "notFound"},
		{"precondition", fmt.Errorf("%w: league started", usecase.ErrPrecondition), http.StatusUnprocessableEntity, "preconditionFailed"},
		{"conflict", fmt.Errorf("%w: join code", usecase.ErrConflict), http.StatusConflict, "conflict"},
		{"permission denied", fmt.Errorf("%w: not admin", usecase.ErrPermissionDenied), http.StatusForbidden, "permissionDenied"},
		{"transient", fmt.Errorf("%w: serialization", usecase.ErrTransient), http.StatusServiceUnavailable, "transient"},
		{"invariant", fmt.Errorf("%w: duplicate pairing", usecase.ErrInvariant), http.StatusInternalServerError, "internalError"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "internalError"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := mapError(tc.err)
			if mapped.HTTPStatus != tc.wantStatus {
				t.Fatalf("status: expected %d, got %d", tc.wantStatus, mapped.HTTPStatus)
			}
			if mapped.Reason != tc.wantReason {
				t.Fatalf("reason: expected %q, got %q", tc.wantReason, mapped.Reason)
			}
		})
	}
}

func TestShouldTraceRequest(t *testing.T) {
	if shouldTraceRequest("/healthz") {
		t.Fatal("health probes should not be traced")
	}
	if !shouldTraceRequest("/v1/leagues") {
		t.Fatal("api routes should be traced")
	}
}
