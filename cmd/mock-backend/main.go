// Command mock-backend runs a deterministic OpenAI-style server for
// exercising the SDK locally. It answers /v1/completions and
// /v1/chat/completions with canned responses; when a request sets
// "stream": true the body is written in chunks followed by the [DONE]
// sentinel line.
//
// Configuration:
//
//	MOCK_PORT - Listen port (default: 9090)
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "9090"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/completions", handleCompletions)
	mux.HandleFunc("POST /v1/chat/completions", handleChatCompletions)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock backend starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock backend failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock backend shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

// --- Request types ---

type completionRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream *bool  `json:"stream"`
}

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Stream *bool `json:"stream"`
}

func handleCompletions(w http.ResponseWriter, r *http.Request) {
	if !checkAuth(w, r) {
		return
	}

	var req completionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %s", err), http.StatusBadRequest)
		return
	}

	resp := map[string]any{
		"id":      "cmpl-mock-1",
		"object":  "text_completion",
		"created": time.Now().Unix(),
		"model":   req.Model,
		"choices": []map[string]any{
			{
				"text":          " This is a mock completion.",
				"index":         0,
				"logprobs":      nil,
				"finish_reason": "stop",
			},
		},
		"usage": map[string]int{
			"prompt_tokens":     len(strings.Fields(req.Prompt)),
			"completion_tokens": 6,
			"total_tokens":      len(strings.Fields(req.Prompt)) + 6,
		},
	}

	writeResponse(w, r, resp, req.Stream != nil && *req.Stream)
}

func handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	if !checkAuth(w, r) {
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %s", err), http.StatusBadRequest)
		return
	}
	if len(req.Messages) == 0 {
		http.Error(w, "messages must not be empty", http.StatusBadRequest)
		return
	}

	prompt := req.Messages[len(req.Messages)-1].Content
	resp := map[string]any{
		"id":      "chatcmpl-mock-1",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   req.Model,
		"choices": []map[string]any{
			{
				"message": map[string]string{
					"role":    "assistant",
					"content": "This is a mock chat completion.",
				},
				"index":         0,
				"finish_reason": "stop",
			},
		},
		"usage": map[string]int{
			"prompt_tokens":     len(strings.Fields(prompt)),
			"completion_tokens": 7,
			"total_tokens":      len(strings.Fields(prompt)) + 7,
		},
	}

	writeResponse(w, r, resp, req.Stream != nil && *req.Stream)
}

// checkAuth rejects requests without a bearer token, which exercises the
// SDK's 4xx error path.
func checkAuth(w http.ResponseWriter, r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") || auth == "Bearer " {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return false
	}
	return true
}

// writeResponse sends the document whole, or for streaming requests as
// line chunks followed by the [DONE] sentinel.
func writeResponse(w http.ResponseWriter, r *http.Request, resp map[string]any, stream bool) {
	data, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if !stream {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// Split the document across a few chunks to simulate a live stream.
	const chunkSize = 64
	for off := 0; off < len(data); off += chunkSize {
		end := min(off+chunkSize, len(data))
		w.Write(data[off:end])
		flusher.Flush()
		time.Sleep(10 * time.Millisecond)
	}
	w.Write([]byte("\n[DONE]\n"))
	flusher.Flush()

	slog.Info("streamed mock response", "path", r.URL.Path, "bytes", len(data))
}
