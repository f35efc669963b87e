package openai

import (
	"encoding/json"
	"testing"
)

func TestTopLogprobsFlattening(t *testing.T) {
	var got TopLogprobs
	if err := json.Unmarshal([]byte(`[{"a": -0.1}, {"b": -0.2, "c": -0.3}]`), &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	want := TopLogprobs{"a": -0.1, "b": -0.2, "c": -0.3}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d: %v", len(got), len(want), got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("got[%q] = %v, want %v", k, got[k], v)
		}
	}
}

// Later array elements overwrite earlier ones on duplicate keys. This
// last-write-wins behavior is a public contract of the decoder.
func TestTopLogprobsLastWriteWins(t *testing.T) {
	var got TopLogprobs
	if err := json.Unmarshal([]byte(`[{"a":1.0},{"b":2.0},{"a":3.0}]`), &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(got), got)
	}
	if got["a"] != 3.0 {
		t.Errorf("got[a] = %v, want 3.0 (later element wins)", got["a"])
	}
	if got["b"] != 2.0 {
		t.Errorf("got[b] = %v, want 2.0", got["b"])
	}
}

func TestTopLogprobsEmptyArray(t *testing.T) {
	var got TopLogprobs
	if err := json.Unmarshal([]byte(`[]`), &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestTopLogprobsNull(t *testing.T) {
	var got TopLogprobs
	if err := json.Unmarshal([]byte(`null`), &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got != nil {
		t.Errorf("got = %v, want nil", got)
	}
}

func TestTopLogprobsRejectsInvalidElements(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"number element", `[1.5]`},
		{"string value", `[{"a": "not a number"}]`},
		{"nested array", `[["a", 1.0]]`},
		{"top-level object", `{"a": 1.0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got TopLogprobs
			if err := json.Unmarshal([]byte(tt.data), &got); err == nil {
				t.Errorf("unmarshal of %s should fail", tt.data)
			}
		})
	}
}

func TestLogprobsDecode(t *testing.T) {
	data := []byte(`{
		"tokens": [" this", " is"],
		"token_logprobs": [-0.5, -0.25],
		"top_logprobs": [{" this": -0.5}, {" is": -0.25, " was": -1.5}],
		"text_offset": [0, 5]
	}`)

	var lp Logprobs
	if err := json.Unmarshal(data, &lp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if len(lp.Tokens) != 2 || lp.Tokens[1] != " is" {
		t.Errorf("Tokens = %v", lp.Tokens)
	}
	if len(lp.TokenLogprobs) != 2 || lp.TokenLogprobs[0] != -0.5 {
		t.Errorf("TokenLogprobs = %v", lp.TokenLogprobs)
	}
	if len(lp.TextOffset) != 2 || lp.TextOffset[1] != 5 {
		t.Errorf("TextOffset = %v", lp.TextOffset)
	}
	if lp.TopLogprobs[" was"] != -1.5 {
		t.Errorf("TopLogprobs = %v", lp.TopLogprobs)
	}
}
