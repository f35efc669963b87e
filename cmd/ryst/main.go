// Command ryst sends a completion or chat completion request to an
// OpenAI-compatible backend and prints the generated text.
//
// Usage:
//
//	ryst [flags] <prompt>
//
// Configuration is loaded from ryst.yaml (see pkg/config) with the API key
// taken from OPENAI_API_KEY when not configured in the file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/embyrai/ryst/pkg/config"
	"github.com/embyrai/ryst/pkg/debug"
	"github.com/embyrai/ryst/pkg/openai"
)

func main() {
	if err := run(); err != nil {
		slog.Error("request failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	model := flag.String("model", "", "override the configured model")
	chat := flag.Bool("chat", false, "use the chat completions endpoint")
	stream := flag.Bool("stream", false, "stream the response")
	flag.Parse()

	if flag.NArg() == 0 {
		return fmt.Errorf("usage: ryst [flags] <prompt>")
	}
	prompt := strings.Join(flag.Args(), " ")

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	debug.Init(cfg.Log.Debug, cfg.Log.Level)

	if *model != "" {
		cfg.Model = *model
	}
	clientCfg := cfg.ClientConfig()

	ctx := context.Background()
	if *chat {
		return runChat(ctx, clientCfg, cfg.Model, prompt, *stream)
	}
	return runCompletion(ctx, clientCfg, cfg.Model, prompt, *stream)
}

func runCompletion(ctx context.Context, cfg openai.Config, model, prompt string, stream bool) error {
	req := openai.NewCompletionRequest(model, prompt)

	var resp *openai.CompletionResponse
	var err error
	if stream {
		handle, streamErr := req.Stream(ctx, cfg)
		if streamErr != nil {
			return streamErr
		}
		defer handle.Close()
		resp, err = handle.Collect(ctx)
	} else {
		resp, err = req.Submit(ctx, cfg)
	}
	if err != nil {
		return err
	}
	if resp == nil {
		slog.Info("stream ended with no content")
		return nil
	}

	for _, choice := range resp.Choices {
		fmt.Println(choice.Text)
	}
	slog.Info("completion finished",
		"model", resp.Model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)
	return nil
}

func runChat(ctx context.Context, cfg openai.Config, model, prompt string, stream bool) error {
	messages := []openai.Message{openai.NewMessage("user", prompt)}
	req := openai.NewChatCompletionRequest(model, messages)

	var resp *openai.ChatCompletionResponse
	var err error
	if stream {
		handle, streamErr := req.Stream(ctx, cfg)
		if streamErr != nil {
			return streamErr
		}
		defer handle.Close()
		resp, err = handle.Collect(ctx)
	} else {
		resp, err = req.Submit(ctx, cfg)
	}
	if err != nil {
		return err
	}
	if resp == nil {
		slog.Info("stream ended with no content")
		return nil
	}

	for _, choice := range resp.Choices {
		fmt.Println(choice.Message.Content)
	}
	slog.Info("chat completion finished",
		"model", resp.Model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)
	return nil
}
