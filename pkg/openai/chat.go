package openai

import (
	"context"

	rysterr "github.com/embyrai/ryst/pkg/errors"
)

// Message is one role/content entry in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewMessage creates a Message with the given role and content.
func NewMessage(role, content string) Message {
	return Message{Role: role, Content: content}
}

// ChatCompletionRequest is a builder for the /v1/chat/completions endpoint.
// Model and Messages are always required; everything else is optional and
// omitted from the serialized body when unset.
type ChatCompletionRequest struct {
	Model            string         `json:"model"`
	Messages         []Message      `json:"messages"`
	Temperature      *float64       `json:"temperature,omitempty"`
	TopP             *float64       `json:"top_p,omitempty"`
	N                *int           `json:"n,omitempty"`
	StreamFlag       *bool          `json:"stream,omitempty"`
	Stop             []string       `json:"stop,omitempty"`
	MaxTokens        *int           `json:"max_tokens,omitempty"`
	PresencePenalty  *float64       `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64       `json:"frequency_penalty,omitempty"`
	LogitBias        map[string]int `json:"logit_bias,omitempty"`
	User             *string        `json:"user,omitempty"`
}

// NewChatCompletionRequest creates a new ChatCompletionRequest builder.
//
// Takes a model and the ordered conversation messages, as these are always
// required.
func NewChatCompletionRequest(model string, messages []Message) *ChatCompletionRequest {
	return &ChatCompletionRequest{
		Model:    model,
		Messages: append([]Message(nil), messages...),
	}
}

// WithTemperature sets the sampling temperature.
//
// This should not be used at the same time as top_p.
func (r *ChatCompletionRequest) WithTemperature(temperature float64) *ChatCompletionRequest {
	r.Temperature = &temperature
	return r
}

// WithTopP sets the nucleus sampling value, where the model considers the
// results of the tokens with top_p probability mass.
//
// This should not be used at the same time as temperature.
func (r *ChatCompletionRequest) WithTopP(topP float64) *ChatCompletionRequest {
	r.TopP = &topP
	return r
}

// WithN sets how many chat completion choices to generate for each input
// message list.
func (r *ChatCompletionRequest) WithN(n int) *ChatCompletionRequest {
	r.N = &n
	return r
}

// WithStop sets the sequence where the API will stop generating further
// tokens. Use of WithStops will overwrite this value.
func (r *ChatCompletionRequest) WithStop(stop string) *ChatCompletionRequest {
	r.Stop = []string{stop}
	return r
}

// WithStops sets up to 4 sequences where the API will stop generating
// further tokens. Use of WithStop will overwrite this value.
func (r *ChatCompletionRequest) WithStops(stops []string) *ChatCompletionRequest {
	r.Stop = append([]string(nil), stops...)
	return r
}

// WithMaxTokens sets the maximum number of tokens to generate in the chat
// completion.
func (r *ChatCompletionRequest) WithMaxTokens(maxTokens int) *ChatCompletionRequest {
	r.MaxTokens = &maxTokens
	return r
}

// WithPresencePenalty penalizes new tokens based on whether they appear in
// the text so far. Takes a number between -2.0 and 2.0; out-of-range
// values are rejected by the remote service, not locally.
func (r *ChatCompletionRequest) WithPresencePenalty(penalty float64) *ChatCompletionRequest {
	r.PresencePenalty = &penalty
	return r
}

// WithFrequencyPenalty penalizes new tokens based on their existing
// frequency in the text so far. Takes a number between -2.0 and 2.0;
// out-of-range values are rejected by the remote service.
func (r *ChatCompletionRequest) WithFrequencyPenalty(penalty float64) *ChatCompletionRequest {
	r.FrequencyPenalty = &penalty
	return r
}

// WithLogitBias modifies the likelihood of specified tokens appearing in
// the completion. Maps tokens (by their token ID in the GPT tokenizer) to
// a bias value from -100 to 100.
func (r *ChatCompletionRequest) WithLogitBias(bias map[string]int) *ChatCompletionRequest {
	r.LogitBias = make(map[string]int, len(bias))
	for k, v := range bias {
		r.LogitBias[k] = v
	}
	return r
}

// WithUser sets a unique ID representing the end-user, which can help
// OpenAI to monitor and detect abuse.
func (r *ChatCompletionRequest) WithUser(user string) *ChatCompletionRequest {
	r.User = &user
	return r
}

func (r *ChatCompletionRequest) validate() error {
	if len(r.Stop) > 4 {
		return rysterr.NewInvalidArgumentError("stop", "you can only provide up to 4 stop sequences")
	}
	if r.Temperature != nil && r.TopP != nil {
		return rysterr.NewInvalidArgumentError("temperature", "use temperature or top_p but not both")
	}
	return nil
}

// Submit sends the chat completion request and decodes the whole response.
//
// Fails with an InvalidStateError when cfg carries no API key, and with an
// InvalidArgumentError when the request is locally invalid or the stream
// flag is set (use Stream instead).
func (r *ChatCompletionRequest) Submit(ctx context.Context, cfg Config) (*ChatCompletionResponse, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	if r.StreamFlag != nil && *r.StreamFlag {
		return nil, rysterr.NewInvalidArgumentError("stream", "use Stream instead of Submit")
	}

	httpResp, err := cfg.post(ctx, chatCompletionsPath, r)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(httpResp); err != nil {
		return nil, err
	}

	var resp ChatCompletionResponse
	if err := decodeBody(httpResp, &resp); err != nil {
		return nil, err
	}
	recordUsage("chat_completions", resp.Usage)
	return &resp, nil
}

// Stream sends the chat completion request with the stream flag forced
// true and returns a handle owning the response byte stream. The handle
// must be closed by the caller.
func (r *ChatCompletionRequest) Stream(ctx context.Context, cfg Config) (*ChatCompletionStream, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := r.validate(); err != nil {
		return nil, err
	}

	streaming := true
	r.StreamFlag = &streaming

	httpResp, err := cfg.post(ctx, chatCompletionsPath, r)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(httpResp); err != nil {
		return nil, err
	}

	return &ChatCompletionStream{stream: newResponseStream(httpResp.Body, "chat_completions")}, nil
}
