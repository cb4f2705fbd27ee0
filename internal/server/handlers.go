package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/coslynx/AI-Response-Wrapper-MVP/internal/llm/openai"
	"github.com/coslynx/AI-Response-Wrapper-MVP/internal/validate"
	"github.com/coslynx/AI-Response-Wrapper-MVP/pkg/models"
)

// handleHealth reports liveness, including the store connection.
func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(); err != nil {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCreatePrompt validates a prompt-creation payload and persists the
// prompt. The validated sampling fields are folded into the parameters
// map before the write.
func (s *Service) handleCreatePrompt(w http.ResponseWriter, r *http.Request) {
	var in validate.PromptCreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.writeError(w, r, badPayload("invalid JSON payload"))
		return
	}

	pc, err := in.Validate()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	prompt := &models.Prompt{
		Text:       pc.Text,
		Model:      pc.Model,
		Parameters: pc.SamplingParams(),
	}
	if user := UserFromContext(r.Context()); user != nil {
		prompt.UserID = &user.ID
	}

	if err := s.prompts.Create(r.Context(), prompt); err != nil {
		s.writeError(w, r, err)
		return
	}

	log.Info().Int64("prompt_id", prompt.ID).Msg("Created new prompt")
	s.writeJSON(w, http.StatusOK, prompt)
}

// handleGetPrompt fetches a persisted prompt by id.
func (s *Service) handleGetPrompt(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeError(w, r, notFound("Prompt not found"))
		return
	}

	prompt, err := s.prompts.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if prompt == nil {
		s.writeError(w, r, notFound("Prompt not found"))
		return
	}

	s.writeJSON(w, http.StatusOK, prompt)
}

// handleCreateResponse validates a generation request, calls the
// generation client, and persists the returned text. A store failure
// after a successful generation discards the generated text; nothing is
// retried.
func (s *Service) handleCreateResponse(w http.ResponseWriter, r *http.Request) {
	var in validate.GenerationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.writeError(w, r, badPayload("invalid JSON payload"))
		return
	}

	gr, err := in.Validate(s.cfg.ValidModels)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.GenerateTimeout.Std())
	defer cancel()

	text, err := s.generator.Generate(ctx, openai.GenerationRequest{
		Model:  gr.Model,
		Prompt: gr.Prompt,
		Params: gr.Parameters,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	response := &models.Response{
		Text:           text,
		Model:          gr.Model,
		Parameters:     gr.Parameters,
		GenerationTime: time.Now().UTC(),
		PromptID:       gr.PromptID,
	}

	if err := s.responses.Create(r.Context(), response); err != nil {
		s.writeError(w, r, err)
		return
	}

	log.Info().Int64("response_id", response.ID).Str("model", response.Model).Msg("Generated response")
	s.writeJSON(w, http.StatusOK, response)
}

// handleGetResponse fetches a persisted response by id.
func (s *Service) handleGetResponse(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeError(w, r, notFound("Response not found"))
		return
	}

	response, err := s.responses.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if response == nil {
		s.writeError(w, r, notFound("Response not found"))
		return
	}

	s.writeJSON(w, http.StatusOK, response)
}

// writeJSON encodes v as the response body with the given status.
func (s *Service) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response body")
	}
}
