package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coslynx/AI-Response-Wrapper-MVP/internal/db"
	"github.com/coslynx/AI-Response-Wrapper-MVP/internal/llm/openai"
	"github.com/coslynx/AI-Response-Wrapper-MVP/internal/validate"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{
			name:       "upstream error",
			err:        &openai.UpstreamError{StatusCode: 503, Message: "overloaded"},
			wantStatus: http.StatusInternalServerError,
			wantDetail: "OpenAI API Error: overloaded",
		},
		{
			name:       "wrapped upstream error",
			err:        fmt.Errorf("generate: %w", &openai.UpstreamError{Message: "timeout"}),
			wantStatus: http.StatusInternalServerError,
			wantDetail: "OpenAI API Error: timeout",
		},
		{
			name:       "store error",
			err:        &db.StoreError{Op: "create prompt", Err: errors.New("connection reset")},
			wantStatus: http.StatusInternalServerError,
			wantDetail: "Database Error: create prompt: connection reset",
		},
		{
			name:       "client error with status",
			err:        notFound("User not found"),
			wantStatus: http.StatusNotFound,
			wantDetail: "User not found",
		},
		{
			name:       "unauthenticated",
			err:        unauthenticated("Authorization header is missing"),
			wantStatus: http.StatusUnauthorized,
			wantDetail: "Authorization header is missing",
		},
		{
			name:       "unclassified error",
			err:        errors.New("something odd"),
			wantStatus: http.StatusInternalServerError,
			wantDetail: unexpectedErrorDetail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := translate(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantDetail, body.Detail)
		})
	}
}

func TestTranslate_ValidationFields(t *testing.T) {
	err := &validate.ValidationError{Fields: map[string]string{
		"text": "text is required and must be non-empty",
	}}

	status, body := translate(err)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "validation failed", body.Detail)
	assert.Equal(t, err.Fields, body.Fields)
}

// A store failure wrapping an upstream-looking message must still be
// reported as a database error; classification is by type, not text.
func TestTranslate_TypeNotText(t *testing.T) {
	err := &db.StoreError{Op: "create response", Err: errors.New("OpenAI API Error: not really")}

	status, body := translate(err)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, body.Detail, "Database Error: ")
}
