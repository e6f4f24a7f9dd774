package apierr

import (
	"errors"
	"net/http"
	"testing"

	domainagg "github.com/yungbote/orderdoc-backend/internal/domain/aggregates"
)

func TestFromErrorMapsAggregateCodes(t *testing.T) {
	cases := []struct {
		code   domainagg.ErrorCode
		status int
	}{
		{domainagg.CodeValidation, http.StatusBadRequest},
		{domainagg.CodeNotFound, http.StatusNotFound},
		{domainagg.CodeConflict, http.StatusConflict},
		{domainagg.CodeRetryable, http.StatusServiceUnavailable},
		{domainagg.CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		got := FromError(domainagg.NewError(tc.code, "op", "msg", nil))
		if got.Status != tc.status {
			t.Fatalf("%s: want=%d got=%d", tc.code, tc.status, got.Status)
		}
	}
}

func TestFromErrorPlainErrorIsInternal(t *testing.T) {
	got := FromError(errors.New("boom"))
	if got.Status != http.StatusInternalServerError || got.Code != "internal" {
		t.Fatalf("unexpected api error: %+v", got)
	}
	if FromError(nil) != nil {
		t.Fatalf("FromError(nil): expected nil")
	}
}
