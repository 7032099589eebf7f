package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internhub/internal/grading"
)

func TestHandleServiceError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"NotFound", grading.NewNotFound("milestone missing"), http.StatusNotFound, "not_found"},
		{"Forbidden", grading.NewForbidden("not your student"), http.StatusForbidden, "forbidden"},
		{"Validation", grading.NewValidation("score out of range"), http.StatusBadRequest, "validation"},
		{"LimitExceeded", grading.NewLimitExceeded("document cap reached"), http.StatusBadRequest, "limit_exceeded"},
		{"InvalidState", grading.NewInvalidState("wrong status"), http.StatusConflict, "invalid_state"},
		{"VersionConflict", grading.ErrVersionConflict, http.StatusConflict, "conflict"},
		{"WrappedError", fmt.Errorf("saving: %w", grading.NewNotFound("record missing")), http.StatusNotFound, "not_found"},
		{"UnclassifiedError", errors.New("boom"), http.StatusInternalServerError, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleServiceError(w, tc.err)
			assert.Equal(t, tc.status, w.Code)

			var body JSONError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tc.kind, body.Kind)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	t.Run("WrapsPlainPayload", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteJSON(w, http.StatusOK, map[string]string{"hello": "world"})

		var body JSONResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.NotNil(t, body.Data)
	})

	t.Run("PassesThroughSuccessMap", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "total": 3})

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, float64(3), body["total"])
		_, wrapped := body["data"]
		assert.False(t, wrapped)
	})
}
