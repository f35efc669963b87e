package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/embyrai/ryst/pkg/debug"
	rysterr "github.com/embyrai/ryst/pkg/errors"
	"github.com/embyrai/ryst/pkg/observability"
)

// DefaultBaseURL is the OpenAI API host used when Config.BaseURL is empty.
const DefaultBaseURL = "https://api.openai.com"

const (
	completionsPath     = "/v1/completions"
	chatCompletionsPath = "/v1/chat/completions"
)

// Config holds the per-call client configuration. It replaces implicit
// process-wide environment lookup: the caller passes a Config to each
// terminal operation.
type Config struct {
	// APIKey authenticates the call. Required; an empty APIKey fails with
	// an InvalidStateError before any network I/O.
	APIKey string

	// Organization is sent as the OpenAI-Organization header when
	// non-empty. Optional; empty means the header is omitted.
	Organization string

	// BaseURL overrides the API host, e.g. for a local mock backend.
	// Empty means DefaultBaseURL.
	BaseURL string

	// HTTPClient overrides the HTTP client used for the call. Nil means a
	// shared default client without a timeout; request lifetime is
	// controlled through the context.
	HTTPClient *http.Client
}

// ConfigFromEnv builds a Config from the OPENAI_API_KEY and OPENAI_API_ORG
// environment variables. A missing OPENAI_API_ORG is not an error; the
// organization header is simply omitted.
func ConfigFromEnv() Config {
	return Config{
		APIKey:       os.Getenv("OPENAI_API_KEY"),
		Organization: os.Getenv("OPENAI_API_ORG"),
	}
}

// defaultHTTPClient is shared by all calls that don't bring their own
// client. No timeout: a streamed response can legitimately outlast any
// fixed limit, and non-streaming callers cancel through the context.
var defaultHTTPClient = &http.Client{}

func (c Config) validate() error {
	if c.APIKey == "" {
		return rysterr.NewInvalidStateError("API key must be set")
	}
	return nil
}

func (c Config) baseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return c.BaseURL
}

func (c Config) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return defaultHTTPClient
	}
	return c.HTTPClient
}

// post serializes payload as JSON and POSTs it to path with auth headers
// attached. The caller owns the returned response body. A transport-level
// failure is returned as an InternalError wrapping the cause.
func (c Config) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, rysterr.NewInvalidStateError(fmt.Sprintf("failed to marshal request: %s", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL()+path, bytes.NewReader(body))
	if err != nil {
		return nil, rysterr.InternalErrorFromSource(err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	if c.Organization != "" {
		httpReq.Header.Set("OpenAI-Organization", c.Organization)
	}

	debug.Log("requests", "sending request", "path", path, "bytes", len(body))
	if debug.TraceIsEnabled("requests") {
		debug.Raw("requests", string(body))
	}

	start := time.Now()
	httpResp, err := c.httpClient().Do(httpReq)
	observability.RequestDuration.WithLabelValues(endpointLabel(path)).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.RequestsTotal.WithLabelValues(endpointLabel(path), "error").Inc()
		return nil, rysterr.InternalErrorFromSource(err)
	}

	observability.RequestsTotal.WithLabelValues(endpointLabel(path), statusClass(httpResp.StatusCode)).Inc()
	return httpResp, nil
}

// checkStatus consumes and classifies a non-2xx response. On the success
// path it returns nil and leaves the body unread for the caller.
//
// The classification is the complete error policy of this layer:
// 4xx carries the raw response text as an InvalidArgumentError, any other
// non-2xx status carries it as an InternalError. No retries.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return rysterr.NewInvalidStateError(err.Error())
	}

	debug.Log("requests", "request rejected", "status", resp.StatusCode, "body", debug.Truncate(string(text), 200))

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return rysterr.NewInvalidArgumentError("request", string(text))
	}
	return rysterr.NewInternalError(string(text))
}

// decodeBody parses a 2xx response body into out. A parse failure is an
// InvalidStateError carrying the parser's message.
func decodeBody(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return rysterr.NewInvalidStateError(err.Error())
	}
	return nil
}

func endpointLabel(path string) string {
	if path == chatCompletionsPath {
		return "chat_completions"
	}
	return "completions"
}

func statusClass(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 400 && code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func recordUsage(endpoint string, usage Usage) {
	observability.TokensTotal.WithLabelValues(endpoint, "prompt").Add(float64(usage.PromptTokens))
	observability.TokensTotal.WithLabelValues(endpoint, "completion").Add(float64(usage.CompletionTokens))
}
