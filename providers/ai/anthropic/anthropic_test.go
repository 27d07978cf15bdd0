package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leofalp/blueprint/providers/ai"
)

func TestSendMessage(t *testing.T) {
	var got anthropicRequest
	var headers http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != messagesEndpoint {
			t.Errorf("path = %q", r.URL.Path)
		}
		headers = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = w.Write([]byte(`{
			"id": "msg_1", "type": "message", "role": "assistant", "model": "claude-x",
			"content": [{"type": "thinking"}, {"type": "text", "text": "{\"ok\":"}, {"type": "text", "text": "true}"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 12, "output_tokens": 8}
		}`))
	}))
	defer server.Close()

	p := New()
	p.WithAPIKey("secret").WithBaseURL(server.URL)

	resp, err := p.SendMessage(context.Background(), ai.NewRequest("", "sys", "hello", &ai.GenerationConfig{Temperature: 0.2}))
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if headers.Get("x-api-key") != "secret" || headers.Get("anthropic-version") != anthropicVersion {
		t.Errorf("headers = %v", headers)
	}
	if headers.Get("Authorization") != "" {
		t.Error("Authorization must not be sent")
	}
	if got.Model != defaultModel || got.System != "sys" || got.MaxTokens != defaultMaxTokens {
		t.Errorf("request = %+v", got)
	}
	if len(got.Messages) != 1 || got.Messages[0].Content[0].Text != "hello" {
		t.Errorf("messages = %+v", got.Messages)
	}

	if resp.Content != `{"ok":true}` || resp.FinishReason != ai.FinishStop {
		t.Errorf("response = %+v", resp)
	}
	if resp.Usage.TotalTokens != 20 {
		t.Errorf("usage = %+v", resp.Usage)
	}
}

func TestSendMessage_MissingKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	_, err := New().SendMessage(context.Background(), ai.NewRequest("", "", "x", nil))
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("err = %v", err)
	}
}

func TestRequestFromGeneric(t *testing.T) {
	req := ai.ChatRequest{
		SystemPrompt: "base",
		Messages: []ai.Message{
			{Role: ai.RoleSystem, Content: "extra"},
			{Role: ai.RoleUser, Content: "u"},
			{Role: ai.RoleAssistant, Content: "a"},
		},
		GenerationConfig: &ai.GenerationConfig{MaxTokens: 256},
	}
	out := requestFromGeneric(req, "m")

	if out.System != "base\n\nextra" {
		t.Errorf("system = %q", out.System)
	}
	if len(out.Messages) != 2 || out.Messages[1].Role != "assistant" {
		t.Errorf("messages = %+v", out.Messages)
	}
	if out.MaxTokens != 256 {
		t.Errorf("max_tokens = %d", out.MaxTokens)
	}
}

func TestMapStopReason(t *testing.T) {
	tests := map[string]string{
		"end_turn":      ai.FinishStop,
		"stop_sequence": ai.FinishStop,
		"max_tokens":    ai.FinishLength,
		"refusal":       ai.FinishContentFilter,
	}
	for in, want := range tests {
		if got := mapStopReason(in); got != want {
			t.Errorf("mapStopReason(%q) = %q, want %q", in, got, want)
		}
	}
}
