// Package validate provides request schemas for prompt creation and
// response generation. Validation is purely local: every violated field is
// reported, not just the first.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/coslynx/AI-Response-Wrapper-MVP/pkg/models"
)

// Defaults applied by the prompt-creation schema.
const (
	DefaultModel            = "text-davinci-003"
	DefaultMaxTokens        = 100
	DefaultTemperature      = 0.5
	DefaultTopP             = 1.0
	DefaultFrequencyPenalty = 0.0
	DefaultPresencePenalty  = 0.0
)

// ValidationError carries one message per violated field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// fieldErrors accumulates violations during a validation pass.
type fieldErrors map[string]string

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// PromptCreateInput is the raw prompt-creation payload. Pointer fields
// distinguish absent values from zero values so defaults apply correctly.
type PromptCreateInput struct {
	Text             *string  `json:"text"`
	Model            *string  `json:"model"`
	MaxTokens        *int     `json:"max_tokens"`
	Temperature      *float64 `json:"temperature"`
	TopP             *float64 `json:"top_p"`
	FrequencyPenalty *float64 `json:"frequency_penalty"`
	PresencePenalty  *float64 `json:"presence_penalty"`
}

// PromptCreate is a validated, normalized prompt-creation request.
type PromptCreate struct {
	Text             string
	Model            string
	MaxTokens        int
	Temperature      float64
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
}

// Validate applies defaults and range checks, returning either a
// normalized value or a *ValidationError listing every violation.
func (in *PromptCreateInput) Validate() (*PromptCreate, error) {
	errs := fieldErrors{}

	out := &PromptCreate{
		Model:            DefaultModel,
		MaxTokens:        DefaultMaxTokens,
		Temperature:      DefaultTemperature,
		TopP:             DefaultTopP,
		FrequencyPenalty: DefaultFrequencyPenalty,
		PresencePenalty:  DefaultPresencePenalty,
	}

	if in.Text == nil || strings.TrimSpace(*in.Text) == "" {
		errs["text"] = "text is required and must be non-empty"
	} else {
		out.Text = *in.Text
	}

	if in.Model != nil {
		out.Model = *in.Model
	}

	if in.MaxTokens != nil {
		if *in.MaxTokens <= 0 {
			errs["max_tokens"] = "max_tokens must be a positive integer"
		} else {
			out.MaxTokens = *in.MaxTokens
		}
	}

	checkUnit(errs, "temperature", in.Temperature, &out.Temperature)
	checkUnit(errs, "top_p", in.TopP, &out.TopP)
	checkUnit(errs, "frequency_penalty", in.FrequencyPenalty, &out.FrequencyPenalty)
	checkUnit(errs, "presence_penalty", in.PresencePenalty, &out.PresencePenalty)

	if err := errs.err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SamplingParams returns the normalized sampling fields as a parameters
// map, the shape they are persisted in.
func (p *PromptCreate) SamplingParams() models.Params {
	return models.Params{
		"max_tokens":        p.MaxTokens,
		"temperature":       p.Temperature,
		"top_p":             p.TopP,
		"frequency_penalty": p.FrequencyPenalty,
		"presence_penalty":  p.PresencePenalty,
	}
}

// GenerationInput is the raw response-generation payload.
type GenerationInput struct {
	Prompt     *string       `json:"prompt"`
	Model      *string       `json:"model"`
	Parameters models.Params `json:"parameters"`
	PromptID   *int64        `json:"prompt_id"`
}

// GenerationRequest is a validated response-generation request.
type GenerationRequest struct {
	Prompt     string
	Model      string
	Parameters models.Params
	PromptID   *int64
}

// Validate checks the payload against the configured model allow-list,
// returning either a normalized value or a *ValidationError listing every
// violation. Membership is the only model check; no I/O happens here.
func (in *GenerationInput) Validate(validModels []string) (*GenerationRequest, error) {
	errs := fieldErrors{}

	out := &GenerationRequest{
		Parameters: in.Parameters,
		PromptID:   in.PromptID,
	}

	if in.Prompt == nil || strings.TrimSpace(*in.Prompt) == "" {
		errs["prompt"] = "prompt is required and must be non-empty"
	} else {
		out.Prompt = *in.Prompt
	}

	switch {
	case in.Model == nil || *in.Model == "":
		errs["model"] = "model is required"
	case !lo.Contains(validModels, *in.Model):
		errs["model"] = fmt.Sprintf("invalid model: %s", *in.Model)
	default:
		out.Model = *in.Model
	}

	if err := errs.err(); err != nil {
		return nil, err
	}
	return out, nil
}

// checkUnit validates an optional float field against the [0,1] range.
func checkUnit(errs fieldErrors, name string, in *float64, out *float64) {
	if in == nil {
		return
	}
	if *in < 0 || *in > 1 {
		errs[name] = name + " must be between 0 and 1"
		return
	}
	*out = *in
}
