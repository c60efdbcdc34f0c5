package ai

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

type completionRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionServer(t *testing.T, content string, got *completionRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(got); err != nil {
			t.Errorf("decode request: %v", err)
		}

		choices := []map[string]any{}
		if content != "" {
			choices = append(choices, map[string]any{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "deepseek-chat",
			"choices": choices,
		})
	}))
}

func TestOpenAIClientRequest(t *testing.T) {
	var req completionRequest
	srv := completionServer(t, "  ответ  ", &req)
	defer srv.Close()

	c := NewOpenAIClient("key", srv.URL+"/", "")

	history := make([]Message, 10)
	for i := range history {
		history[i] = Message{Role: "user", Text: "m"}
	}

	got, err := c.GetReply(context.Background(), "system", history, "вопрос")
	if err != nil {
		t.Fatalf("GetReply: %v", err)
	}
	if got != "ответ" {
		t.Fatalf("got %q", got)
	}

	if req.Model != DefaultModel || req.MaxTokens != maxTokens {
		t.Fatalf("unexpected request: %+v", req)
	}
	if math.Abs(req.Temperature-temperature) > 1e-6 {
		t.Fatalf("temperature = %v", req.Temperature)
	}
	if len(req.Messages) != historyWindow+2 {
		t.Fatalf("sent %d messages, want %d", len(req.Messages), historyWindow+2)
	}
	if req.Messages[0].Role != "system" || req.Messages[len(req.Messages)-1].Content != "вопрос" {
		t.Fatalf("unexpected messages: %+v", req.Messages)
	}
}

func TestOpenAIClientEmptyChoices(t *testing.T) {
	var req completionRequest
	srv := completionServer(t, "", &req)
	defer srv.Close()

	c := NewOpenAIClient("key", srv.URL, "custom-model")
	if _, err := c.GetReply(context.Background(), "system", nil, "вопрос"); !errors.Is(err, ErrEmptyReply) {
		t.Fatalf("err = %v", err)
	}
	if req.Model != "custom-model" {
		t.Fatalf("model = %q", req.Model)
	}
}
