package openai

import "encoding/json"

// Usage is the token accounting for one response and its request.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionResponse is the document returned from a completion request.
type CompletionResponse struct {
	// ID is the request ID.
	ID string `json:"id"`
	// Object is the response type.
	Object string `json:"object"`
	// Created is the creation timestamp (Unix seconds).
	Created int64 `json:"created"`
	// Model is the model the response was created with.
	Model string `json:"model"`
	// Choices is the list of generated completions.
	Choices []CompletionChoice `json:"choices"`
	// Usage is the tokens used by this response and associated request.
	Usage Usage `json:"usage"`
}

// CompletionChoice is one generated completion candidate.
type CompletionChoice struct {
	Text         string    `json:"text"`
	Index        int       `json:"index"`
	Logprobs     *Logprobs `json:"logprobs"`
	FinishReason string    `json:"finish_reason"`
}

// Logprobs is the per-token log-probability detail optionally returned
// with a completion choice. Tokens, TokenLogprobs, and TextOffset are
// parallel sequences.
type Logprobs struct {
	Tokens        []string    `json:"tokens"`
	TokenLogprobs []float64   `json:"token_logprobs"`
	TopLogprobs   TopLogprobs `json:"top_logprobs"`
	TextOffset    []int       `json:"text_offset"`
}

// TopLogprobs maps candidate-token strings to their log probabilities.
//
// The upstream service emits it as a JSON array of objects, one per
// position. Decoding flattens the array in order into a single mapping:
// when the same key occurs in more than one array element, the later
// element wins. Last-write-wins on duplicate keys is a public contract of
// this decoder, not an accident.
type TopLogprobs map[string]float64

// UnmarshalJSON flattens the upstream array-of-objects form. Any array
// element that is not an object of string keys to numbers is a decode
// error.
func (t *TopLogprobs) UnmarshalJSON(data []byte) error {
	var entries []map[string]float64
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	if entries == nil {
		*t = nil
		return nil
	}

	flat := make(TopLogprobs)
	for _, entry := range entries {
		for token, logprob := range entry {
			flat[token] = logprob
		}
	}
	*t = flat
	return nil
}

// ChatCompletionResponse is the document returned from a chat completion
// request.
type ChatCompletionResponse struct {
	// ID is the request ID.
	ID string `json:"id"`
	// Object is the response type.
	Object string `json:"object"`
	// Created is the creation timestamp (Unix seconds).
	Created int64 `json:"created"`
	// Model is the model the response was created with.
	Model string `json:"model"`
	// Choices is the list of generated completions.
	Choices []ChatChoice `json:"choices"`
	// Usage is the tokens used by this response and associated request.
	Usage Usage `json:"usage"`
}

// ChatChoice is one generated chat completion candidate.
type ChatChoice struct {
	Message      Message `json:"message"`
	Index        int     `json:"index"`
	FinishReason string  `json:"finish_reason"`
}
