package models

import "time"

// Response is a stored result of a generation call, linked to the Prompt
// that produced it. Rows are never mutated after creation.
type Response struct {
	ID             int64     `json:"id"`
	Text           string    `json:"text"`
	Model          string    `json:"model"`
	Parameters     Params    `json:"parameters,omitempty"`
	GenerationTime time.Time `json:"generation_time"`
	PromptID       *int64    `json:"prompt_id,omitempty"`
}
