package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/embyrai/ryst/pkg/debug"
	rysterr "github.com/embyrai/ryst/pkg/errors"
	"github.com/embyrai/ryst/pkg/observability"
)

// streamSentinel is the literal chunk marking end-of-stream in the
// streaming wire format.
var streamSentinel = []byte("[DONE]")

// responseStream owns the open byte stream of a streaming call. It is
// exclusively owned by its caller; no synchronization.
type responseStream struct {
	body     io.ReadCloser
	endpoint string
	closed   bool
}

func newResponseStream(body io.ReadCloser, endpoint string) *responseStream {
	observability.StreamsActive.Inc()
	return &responseStream{body: body, endpoint: endpoint}
}

// drain consumes the stream until it signals its own end and returns the
// accumulated payload bytes. Chunks byte-equal to the [DONE] sentinel are
// skipped; everything else is buffered. A read failure aborts immediately
// with an InternalError and discards any buffered bytes. A nil, nil return
// means the stream ended with no content, which is a normal outcome: it is
// what an empty or sentinel-only stream produces, and what every drain
// after the first produces.
func (s *responseStream) drain(ctx context.Context) ([]byte, error) {
	var buf bytes.Buffer

	// ReadBytes grows as needed, so a whole response arriving as one
	// line is fine no matter how large it is.
	reader := bufio.NewReader(s.body)
	for {
		if err := ctx.Err(); err != nil {
			return nil, rysterr.InternalErrorFromSource(err)
		}

		line, err := reader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, rysterr.InternalErrorFromSource(err)
		}

		chunk := trimLineEnding(line)
		if bytes.Equal(chunk, streamSentinel) {
			debug.Log("streaming", "sentinel received", "endpoint", s.endpoint)
		} else {
			buf.Write(chunk)
		}

		if err == io.EOF {
			break
		}
	}

	if buf.Len() == 0 {
		return nil, nil
	}

	debug.Log("streaming", "stream drained", "endpoint", s.endpoint, "bytes", buf.Len())
	if debug.TraceIsEnabled("streaming") {
		debug.Raw("streaming", buf.String())
	}
	return buf.Bytes(), nil
}

func trimLineEnding(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r"))
}

// Close releases the underlying byte stream. Safe to call more than once.
func (s *responseStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	observability.StreamsActive.Dec()
	return s.body.Close()
}

// CompletionStream owns the byte stream of a streaming completion call.
//
// Collect is a one-shot operation: it drains the stream to completion and
// returns the single assembled response, or nil when the stream carried no
// content. It deliberately replaces the repeatable-iterator shape the
// upstream wire format suggests, because the underlying stream can only
// ever produce one document.
type CompletionStream struct {
	stream *responseStream
}

// Collect drains the stream and decodes the assembled bytes as a
// CompletionResponse. A nil, nil return means the stream ended with no
// content; collecting again after the stream is drained returns nil, nil
// as well. A failed read surfaces as an InternalError, a body that does
// not parse as an InvalidStateError.
func (s *CompletionStream) Collect(ctx context.Context) (*CompletionResponse, error) {
	data, err := s.stream.drain(ctx)
	if err != nil || data == nil {
		return nil, err
	}

	var resp CompletionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, rysterr.NewInvalidStateError(err.Error())
	}
	recordUsage(s.stream.endpoint, resp.Usage)
	return &resp, nil
}

// Close releases the underlying byte stream.
func (s *CompletionStream) Close() error {
	return s.stream.Close()
}

// ChatCompletionStream owns the byte stream of a streaming chat completion
// call. See CompletionStream for the Collect contract.
type ChatCompletionStream struct {
	stream *responseStream
}

// Collect drains the stream and decodes the assembled bytes as a
// ChatCompletionResponse. A nil, nil return means the stream ended with no
// content; collecting again after the stream is drained returns nil, nil
// as well.
func (s *ChatCompletionStream) Collect(ctx context.Context) (*ChatCompletionResponse, error) {
	data, err := s.stream.drain(ctx)
	if err != nil || data == nil {
		return nil, err
	}

	var resp ChatCompletionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, rysterr.NewInvalidStateError(err.Error())
	}
	recordUsage(s.stream.endpoint, resp.Usage)
	return &resp, nil
}

// Close releases the underlying byte stream.
func (s *ChatCompletionStream) Close() error {
	return s.stream.Close()
}
