package response_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/dispensing-data-access/internal/query"
	"github.com/maxviazov/dispensing-data-access/internal/repository"
	"github.com/maxviazov/dispensing-data-access/pkg/response"
)

func TestMapError(t *testing.T) {
	invalid := repository.NewInvalidInput(repository.FieldError{Field: "name", Message: "is required"})
	cases := []struct {
		name     string
		in       error
		wantCode int
		wantErr  string
	}{
		{"invalid_input", invalid, 400, "invalid_input"},
		{"invalid_criteria", fmt.Errorf("%w: unknown filter field", query.ErrInvalidCriteria), 400, "invalid_criteria"},
		{"not_found", repository.ErrNotFound, 404, "not_found"},
		{"wrapped_not_found", fmt.Errorf("item 2: %w", repository.ErrNotFound), 404, "not_found"},
		{"already_exists", repository.ErrAlreadyExists, 409, "already_exists"},
		{"conflict", repository.ErrConflict, 409, "conflict"},
		{"internal", errors.New("boom"), 500, "internal_error"},
		{"nil", nil, 200, "ok"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, payload := response.MapError(tc.in)
			if code != tc.wantCode || payload.Error != tc.wantErr {
				t.Fatalf("unexpected mapping: got (%d,%s) want (%d,%s)", code, payload.Error, tc.wantCode, tc.wantErr)
			}
			if tc.wantErr == "invalid_input" && len(payload.FieldErrors) == 0 {
				t.Fatalf("expected field errors in payload")
			}
		})
	}
}

func TestWriteError_Aborts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	response.WriteError(c, repository.ErrConflict)
	if !c.IsAborted() {
		t.Fatal("context must be aborted")
	}
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}
