// Package openai is a thin client SDK for the OpenAI text-generation API.
// It provides builder types for the completion and chat completion
// endpoints, performs bearer-authenticated HTTP calls, and decodes both
// whole and streamed JSON responses.
//
// A request is assembled with a builder and sent with one of its terminal
// operations:
//
//	resp, err := openai.NewCompletionRequest("babbage-002", "Say this is a test").
//		WithMaxTokens(15).
//		Submit(ctx, openai.ConfigFromEnv())
//
// Streaming uses the same builder:
//
//	stream, err := openai.NewCompletionRequest("babbage-002", "Say this is a test").
//		Stream(ctx, cfg)
//	defer stream.Close()
//	resp, err := stream.Collect(ctx)
//
// Failures are reported with the typed errors from
// github.com/embyrai/ryst/pkg/errors: locally invalid arguments and remote
// 4xx statuses as InvalidArgumentError, missing configuration and parse
// failures as InvalidStateError, everything else as InternalError.
package openai
