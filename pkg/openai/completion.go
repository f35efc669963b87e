package openai

import (
	"context"

	rysterr "github.com/embyrai/ryst/pkg/errors"
)

// CompletionRequest is a builder for the /v1/completions endpoint. Model
// and Prompt are always required; everything else is optional and omitted
// from the serialized body when unset.
type CompletionRequest struct {
	Model            string         `json:"model"`
	Prompt           string         `json:"prompt"`
	Suffix           *string        `json:"suffix,omitempty"`
	MaxTokens        *int           `json:"max_tokens,omitempty"`
	Temperature      *float64       `json:"temperature,omitempty"`
	TopP             *float64       `json:"top_p,omitempty"`
	N                *int           `json:"n,omitempty"`
	StreamFlag       *bool          `json:"stream,omitempty"`
	Logprobs         *int           `json:"logprobs,omitempty"`
	Echo             *bool          `json:"echo,omitempty"`
	Stop             []string       `json:"stop,omitempty"`
	PresencePenalty  *float64       `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64       `json:"frequency_penalty,omitempty"`
	BestOf           *int           `json:"best_of,omitempty"`
	LogitBias        map[string]int `json:"logit_bias,omitempty"`
	User             *string        `json:"user,omitempty"`
}

// NewCompletionRequest creates a new CompletionRequest builder.
//
// Takes a model and prompt, as these are always required.
func NewCompletionRequest(model, prompt string) *CompletionRequest {
	return &CompletionRequest{Model: model, Prompt: prompt}
}

// WithSuffix adds a suffix that comes after a completion of inserted text.
//
// Only works with some models.
func (r *CompletionRequest) WithSuffix(suffix string) *CompletionRequest {
	r.Suffix = &suffix
	return r
}

// WithMaxTokens sets the maximum number of tokens to generate in the
// completion.
func (r *CompletionRequest) WithMaxTokens(maxTokens int) *CompletionRequest {
	r.MaxTokens = &maxTokens
	return r
}

// WithTemperature sets the sampling temperature.
//
// This should not be used at the same time as top_p.
func (r *CompletionRequest) WithTemperature(temperature float64) *CompletionRequest {
	r.Temperature = &temperature
	return r
}

// WithTopP sets the nucleus sampling value, where the model considers the
// results of the tokens with top_p probability mass.
//
// This should not be used at the same time as temperature.
func (r *CompletionRequest) WithTopP(topP float64) *CompletionRequest {
	r.TopP = &topP
	return r
}

// WithN sets how many completions to generate for each prompt.
func (r *CompletionRequest) WithN(n int) *CompletionRequest {
	r.N = &n
	return r
}

// WithLogprobs includes the log probabilities on the logprobs most likely
// tokens, as well as the chosen tokens.
func (r *CompletionRequest) WithLogprobs(logprobs int) *CompletionRequest {
	r.Logprobs = &logprobs
	return r
}

// WithEcho echoes back the prompt in addition to the completion.
func (r *CompletionRequest) WithEcho(echo bool) *CompletionRequest {
	r.Echo = &echo
	return r
}

// WithStop sets the sequence where the API will stop generating further
// tokens. The returned text will not contain the stop sequence. Use of
// WithStops will overwrite this value.
func (r *CompletionRequest) WithStop(stop string) *CompletionRequest {
	r.Stop = []string{stop}
	return r
}

// WithStops sets up to 4 sequences where the API will stop generating
// further tokens. The returned text will not contain the stop sequence.
// Use of WithStop will overwrite this value.
func (r *CompletionRequest) WithStops(stops []string) *CompletionRequest {
	r.Stop = append([]string(nil), stops...)
	return r
}

// WithPresencePenalty penalizes new tokens based on whether they appear in
// the text so far. Positive values increase the model's likelihood to talk
// about new topics. Takes a number between -2.0 and 2.0; out-of-range
// values are rejected by the remote service, not locally.
func (r *CompletionRequest) WithPresencePenalty(penalty float64) *CompletionRequest {
	r.PresencePenalty = &penalty
	return r
}

// WithFrequencyPenalty penalizes new tokens based on their existing
// frequency in the text so far. Positive values decrease the model's
// likelihood to repeat the same line verbatim. Takes a number between
// -2.0 and 2.0; out-of-range values are rejected by the remote service.
func (r *CompletionRequest) WithFrequencyPenalty(penalty float64) *CompletionRequest {
	r.FrequencyPenalty = &penalty
	return r
}

// WithBestOf generates best_of completions server-side and returns the
// "best": the one with the highest log probability per token. Results
// cannot be streamed.
func (r *CompletionRequest) WithBestOf(bestOf int) *CompletionRequest {
	r.BestOf = &bestOf
	return r
}

// WithLogitBias modifies the likelihood of specified tokens appearing in
// the completion. Maps tokens (by their token ID in the GPT tokenizer) to
// a bias value from -100 to 100. For example, {"50256": -100} prevents
// the <|endoftext|> token from being generated.
func (r *CompletionRequest) WithLogitBias(bias map[string]int) *CompletionRequest {
	r.LogitBias = make(map[string]int, len(bias))
	for k, v := range bias {
		r.LogitBias[k] = v
	}
	return r
}

// WithUser sets a unique ID representing the end-user, which can help
// OpenAI to monitor and detect abuse.
func (r *CompletionRequest) WithUser(user string) *CompletionRequest {
	r.User = &user
	return r
}

// validate covers the cross-field checks performed before any network I/O.
// Out-of-range numeric values are deliberately not checked here; the
// remote service rejects them.
func (r *CompletionRequest) validate() error {
	if len(r.Stop) > 4 {
		return rysterr.NewInvalidArgumentError("stop", "you can only provide up to 4 stop sequences")
	}
	if r.Temperature != nil && r.TopP != nil {
		return rysterr.NewInvalidArgumentError("temperature", "use temperature or top_p but not both")
	}
	return nil
}

// Submit sends the completion request and decodes the whole response.
//
// Fails with an InvalidStateError when cfg carries no API key, and with an
// InvalidArgumentError when the request is locally invalid or the stream
// flag is set (use Stream instead).
func (r *CompletionRequest) Submit(ctx context.Context, cfg Config) (*CompletionResponse, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	if r.StreamFlag != nil && *r.StreamFlag {
		return nil, rysterr.NewInvalidArgumentError("stream", "use Stream instead of Submit")
	}

	httpResp, err := cfg.post(ctx, completionsPath, r)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(httpResp); err != nil {
		return nil, err
	}

	var resp CompletionResponse
	if err := decodeBody(httpResp, &resp); err != nil {
		return nil, err
	}
	recordUsage("completions", resp.Usage)
	return &resp, nil
}

// Stream sends the completion request with the stream flag forced true and
// returns a handle owning the response byte stream. The handle must be
// closed by the caller.
func (r *CompletionRequest) Stream(ctx context.Context, cfg Config) (*CompletionStream, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := r.validate(); err != nil {
		return nil, err
	}

	streaming := true
	r.StreamFlag = &streaming

	httpResp, err := cfg.post(ctx, completionsPath, r)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(httpResp); err != nil {
		return nil, err
	}

	return &CompletionStream{stream: newResponseStream(httpResp.Body, "completions")}, nil
}
