package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

func TestGenerator_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var req struct {
			Model       string  `json:"model"`
			Temperature float32 `json:"temperature"`
			MaxTokens   int     `json:"max_tokens"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "gpt-3.5-turbo" {
			t.Errorf("unexpected model %q", req.Model)
		}
		if req.Temperature != 0.7 {
			t.Errorf("unexpected temperature %f", req.Temperature)
		}
		if req.MaxTokens != 500 {
			t.Errorf("unexpected max_tokens %d", req.MaxTokens)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("unexpected messages %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"model":  "gpt-3.5-turbo",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": "The answer."},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]any{
				"prompt_tokens":     100,
				"completion_tokens": 10,
				"total_tokens":      110,
			},
		})
	}))
	defer server.Close()

	gen := NewGenerator(&GeneratorConfig{
		APIKey:      "test-key",
		BaseURL:     server.URL,
		Model:       "gpt-3.5-turbo",
		Temperature: 0.7,
		MaxTokens:   500,
		Logger:      zap.NewNop(),
	})

	answer, err := gen.Generate(context.Background(), "you are helpful", "what is up?")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if answer != "The answer." {
		t.Errorf("unexpected answer %q", answer)
	}
}

func TestGenerator_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "upstream exploded", "type": "server_error"},
		})
	}))
	defer server.Close()

	gen := NewGenerator(&GeneratorConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gpt-3.5-turbo",
		Logger:  zap.NewNop(),
	})

	_, err := gen.Generate(context.Background(), "sys", "user")
	if !errors.Is(err, domain.ErrGenerationProvider) {
		t.Errorf("expected ErrGenerationProvider, got %v", err)
	}
}

func TestGenerator_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "cmpl-2",
			"object":  "chat.completion",
			"model":   "gpt-3.5-turbo",
			"choices": []map[string]any{},
		})
	}))
	defer server.Close()

	gen := NewGenerator(&GeneratorConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gpt-3.5-turbo",
		Logger:  zap.NewNop(),
	})

	_, err := gen.Generate(context.Background(), "sys", "user")
	if !errors.Is(err, domain.ErrGenerationProvider) {
		t.Errorf("expected ErrGenerationProvider for empty choices, got %v", err)
	}
}
