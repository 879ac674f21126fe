package apierr

import (
	"fmt"
	"net/http"
	"testing"

	pkgerrors "github.com/yungbote/contentflow-backend/internal/pkg/errors"
)

func TestFromMapsSentinels(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("load series: %w", pkgerrors.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("bad kind: %w", pkgerrors.ErrInvalidArgument), http.StatusBadRequest},
		{pkgerrors.ErrConflict, http.StatusConflict},
		{pkgerrors.ErrUnauthorized, http.StatusUnauthorized},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		got := From(tc.err, "internal")
		if got.Status != tc.status {
			t.Fatalf("From(%v): want=%d got=%d", tc.err, tc.status, got.Status)
		}
	}
}

func TestFromKeepsExplicitError(t *testing.T) {
	in := Conflict("keci_time_rejected", fmt.Errorf("nope"))
	got := From(fmt.Errorf("wrap: %w", in), "internal")
	if got.Code != "keci_time_rejected" {
		t.Fatalf("code: want=keci_time_rejected got=%s", got.Code)
	}
	if From(nil, "x") != nil {
		t.Fatalf("nil error should map to nil")
	}
}
