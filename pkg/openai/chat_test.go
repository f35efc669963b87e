package openai

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	rysterr "github.com/embyrai/ryst/pkg/errors"
)

func TestChatCompletionRequestJSONOmitsUnsetFields(t *testing.T) {
	req := NewChatCompletionRequest("gpt-3.5-turbo", []Message{
		NewMessage("user", "Say this is a test"),
	})

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	want := `{"model":"gpt-3.5-turbo","messages":[{"role":"user","content":"Say this is a test"}]}`
	if string(data) != want {
		t.Errorf("body = %s, want %s", data, want)
	}
}

func TestChatSubmitValidation(t *testing.T) {
	srv := guardServer(t)
	defer srv.Close()
	cfg := Config{APIKey: "test-key", BaseURL: srv.URL}
	messages := []Message{NewMessage("user", "test")}

	tests := []struct {
		name      string
		req       *ChatCompletionRequest
		wantParam string
	}{
		{
			"temperature and top_p both set",
			NewChatCompletionRequest("gpt-3.5-turbo", messages).WithTemperature(0.5).WithTopP(0.1),
			"temperature",
		},
		{
			"more than 4 stop sequences",
			NewChatCompletionRequest("gpt-3.5-turbo", messages).WithStops([]string{"a", "b", "c", "d", "e"}),
			"stop",
		},
		{
			"stream flag set on submit",
			func() *ChatCompletionRequest {
				r := NewChatCompletionRequest("gpt-3.5-turbo", messages)
				streaming := true
				r.StreamFlag = &streaming
				return r
			}(),
			"stream",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.Submit(context.Background(), cfg)

			var invalidArg *rysterr.InvalidArgumentError
			if !stderrors.As(err, &invalidArg) {
				t.Fatalf("error = %v, want *InvalidArgumentError", err)
			}
			if invalidArg.Param != tt.wantParam {
				t.Errorf("Param = %q, want %q", invalidArg.Param, tt.wantParam)
			}
		})
	}
}

func TestChatSubmitMissingAPIKey(t *testing.T) {
	srv := guardServer(t)
	defer srv.Close()

	_, err := NewChatCompletionRequest("gpt-3.5-turbo", []Message{NewMessage("user", "test")}).
		Submit(context.Background(), Config{BaseURL: srv.URL})

	var invalidState *rysterr.InvalidStateError
	if !stderrors.As(err, &invalidState) {
		t.Fatalf("error = %v, want *InvalidStateError", err)
	}
}

func TestChatSubmitSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s, want /v1/chat/completions", r.URL.Path)
		}

		var req ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if len(req.Messages) != 2 {
			t.Fatalf("len(Messages) = %d, want 2", len(req.Messages))
		}
		// Message order must be preserved on the wire.
		if req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("message order = %s, %s; want system, user", req.Messages[0].Role, req.Messages[1].Role)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1680000000,
			"model": "gpt-3.5-turbo",
			"choices": [
				{
					"message": {"role": "assistant", "content": "This is a test."},
					"index": 0,
					"finish_reason": "stop"
				}
			],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer srv.Close()

	messages := []Message{
		NewMessage("system", "You are a test assistant."),
		NewMessage("user", "Say this is a test"),
	}
	resp, err := NewChatCompletionRequest("gpt-3.5-turbo", messages).
		WithMaxTokens(15).
		Submit(context.Background(), Config{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if resp.ID != "chatcmpl-1" {
		t.Errorf("ID = %q, want chatcmpl-1", resp.ID)
	}
	if len(resp.Choices) != 1 {
		t.Fatalf("len(Choices) = %d, want 1", len(resp.Choices))
	}
	if got := resp.Choices[0].Message.Content; got != "This is a test." {
		t.Errorf("Content = %q", got)
	}
	if resp.Choices[0].Message.Role != "assistant" {
		t.Errorf("Role = %q, want assistant", resp.Choices[0].Message.Role)
	}
	if resp.Usage.PromptTokens != 10 {
		t.Errorf("PromptTokens = %d, want 10", resp.Usage.PromptTokens)
	}
}

func TestChatSubmitClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("model not found"))
	}))
	defer srv.Close()

	_, err := NewChatCompletionRequest("nope", []Message{NewMessage("user", "test")}).
		Submit(context.Background(), Config{APIKey: "test-key", BaseURL: srv.URL})

	var invalidArg *rysterr.InvalidArgumentError
	if !stderrors.As(err, &invalidArg) {
		t.Fatalf("error = %v, want *InvalidArgumentError", err)
	}
	if invalidArg.Message != "model not found" {
		t.Errorf("Message = %q, want the raw response text", invalidArg.Message)
	}
}

func TestChatStreamCollect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.StreamFlag == nil || !*req.StreamFlag {
			t.Error("stream flag should be forced true for Stream calls")
		}

		w.Write([]byte(`{"id":"chatcmpl-2","object":"chat.completion","created":1,"model":"gpt-3.5-turbo","choices":[{"message":{"role":"assistant","content":"hi"},"index":0,"finish_reason":"stop"}],"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}` + "\n[DONE]\n"))
	}))
	defer srv.Close()

	stream, err := NewChatCompletionRequest("gpt-3.5-turbo", []Message{NewMessage("user", "hi")}).
		Stream(context.Background(), Config{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}
	defer stream.Close()

	resp, err := stream.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	if resp == nil || resp.ID != "chatcmpl-2" {
		t.Fatalf("resp = %+v, want ID chatcmpl-2", resp)
	}

	// The stream is fully drained: a second collect is the documented
	// "no response" outcome, not an error.
	again, err := stream.Collect(context.Background())
	if err != nil {
		t.Fatalf("second collect failed: %v", err)
	}
	if again != nil {
		t.Errorf("second collect = %+v, want nil", again)
	}
}
