package models

// Prompt is a stored request for text generation: the input text plus the
// model and sampling parameters it should be generated with.
type Prompt struct {
	ID         int64  `json:"id"`
	Text       string `json:"text"`
	Model      string `json:"model"`
	Parameters Params `json:"parameters,omitempty"`
	UserID     *int64 `json:"user_id,omitempty"`
}
