package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSuccessEnvelope(t *testing.T) {
	t.Run("created carries message and data", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Created(rec, "Leave request submitted", map[string]string{"id": "lr-1"})

		assert.Equal(t, http.StatusCreated, rec.Code)
		body := decode(t, rec)
		assert.JSONEq(t, `true`, string(body["success"]))
		assert.JSONEq(t, `"Leave request submitted"`, string(body["message"]))
		assert.JSONEq(t, `{"id":"lr-1"}`, string(body["data"]))
		assert.NotContains(t, body, "error")
		assert.NotContains(t, body, "meta")
	})

	t.Run("meta is computed from page, limit and total", func(t *testing.T) {
		rec := httptest.NewRecorder()
		SuccessWithMeta(rec, []int{1, 2}, NewMeta(2, 2, 5))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.JSONEq(t, `{"page":2,"limit":2,"total_items":5,"total_pages":3}`, string(body["meta"]))
	})
}

func TestNewMeta_ZeroLimit(t *testing.T) {
	meta := NewMeta(1, 0, 7)
	assert.Equal(t, 0, meta.TotalPages)
	assert.Equal(t, int64(7), meta.TotalItems)
}

func TestErrorEnvelope(t *testing.T) {
	tests := []struct {
		name   string
		write  func(w http.ResponseWriter)
		status int
		code   string
	}{
		{"bad request", func(w http.ResponseWriter) { BadRequest(w, "Invalid JSON", nil) }, http.StatusBadRequest, CodeBadRequest},
		{"unauthorized", func(w http.ResponseWriter) { Unauthorized(w, "Missing token") }, http.StatusUnauthorized, CodeUnauthorized},
		{"forbidden", func(w http.ResponseWriter) { Forbidden(w, "Nope") }, http.StatusForbidden, CodeForbidden},
		{"not found", func(w http.ResponseWriter) { NotFound(w, "Gone") }, http.StatusNotFound, CodeNotFound},
		{"conflict", func(w http.ResponseWriter) { Conflict(w, "Busy") }, http.StatusConflict, CodeConflict},
		{"internal", func(w http.ResponseWriter) { InternalServerError(w, "Oops") }, http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			assert.Equal(t, tt.status, rec.Code)
			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Nil(t, body.Data)
		})
	}
}

func TestValidationErrorDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationError(rec, map[string]string{"to_date": "to_date must not be before from_date"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, CodeValidation, body.Error.Code)
	assert.Equal(t, "to_date must not be before from_date", body.Error.Details["to_date"])
}

func TestWriteJSON_EncodingFailureIsReportedAs500(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]interface{}{"bad": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, CodeEncoding, body.Error.Code)
}
