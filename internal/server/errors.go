package server

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/coslynx/AI-Response-Wrapper-MVP/internal/db"
	"github.com/coslynx/AI-Response-Wrapper-MVP/internal/llm/openai"
	"github.com/coslynx/AI-Response-Wrapper-MVP/internal/validate"
)

// unexpectedErrorDetail is returned for anything the translator cannot
// classify.
const unexpectedErrorDetail = "An unexpected error occurred. Please try again later."

// httpError is a client-visible error that already carries its status
// code, e.g. an authentication failure or a missing row.
type httpError struct {
	status int
	detail string
}

func (e *httpError) Error() string { return e.detail }

func unauthenticated(detail string) error {
	return &httpError{status: http.StatusUnauthorized, detail: detail}
}

func notFound(detail string) error {
	return &httpError{status: http.StatusNotFound, detail: detail}
}

func badPayload(detail string) error {
	return &httpError{status: http.StatusUnprocessableEntity, detail: detail}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields,omitempty"`
}

// translate maps an error to an HTTP status and response body.
// First match wins: upstream failures, then store failures, then
// client-visible errors carrying their own status, then a generic 500.
func translate(err error) (int, errorBody) {
	var upstreamErr *openai.UpstreamError
	if errors.As(err, &upstreamErr) {
		return http.StatusInternalServerError, errorBody{
			Detail: "OpenAI API Error: " + upstreamErr.Message,
		}
	}

	var storeErr *db.StoreError
	if errors.As(err, &storeErr) {
		return http.StatusInternalServerError, errorBody{
			Detail: "Database Error: " + storeErr.Error(),
		}
	}

	var validationErr *validate.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusUnprocessableEntity, errorBody{
			Detail: "validation failed",
			Fields: validationErr.Fields,
		}
	}

	var clientErr *httpError
	if errors.As(err, &clientErr) {
		return clientErr.status, errorBody{Detail: clientErr.detail}
	}

	return http.StatusInternalServerError, errorBody{Detail: unexpectedErrorDetail}
}

// writeError logs the failure with its request context and writes the
// translated response.
func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := translate(err)

	log.Error().
		Err(err).
		Str("method", r.Method).
		Str("target", r.URL.String()).
		Str("request_id", requestIDFromContext(r.Context())).
		Int("status", status).
		Msg("Request failed")

	s.writeJSON(w, status, body)
}
