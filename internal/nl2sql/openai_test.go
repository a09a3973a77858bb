package nl2sql

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func chatServer(t *testing.T, content string, capture *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if capture != nil {
			if err := json.NewDecoder(r.Body).Decode(capture); err != nil {
				t.Errorf("decode request payload: %v", err)
			}
		}
		response := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
}

func newTestTranslator(t *testing.T, baseURL string) *OpenAITranslator {
	t.Helper()
	translator, err := NewOpenAITranslator(OpenAIConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Model:   "test-model",
	})
	if err != nil {
		t.Fatalf("NewOpenAITranslator() error = %v", err)
	}
	return translator
}

func TestTranslateReturnsSQLAndNotes(t *testing.T) {
	var payload map[string]any
	server := chatServer(t, `{"sql":"select * from users limit 50;","notes":"all users"}`, &payload)
	defer server.Close()

	result, err := newTestTranslator(t, server.URL).Translate(context.Background(), Request{
		Question:   "list all users",
		SchemaText: "public.users: id (integer)",
	})
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if result.SQL != "select * from users limit 50;" {
		t.Fatalf("SQL = %q", result.SQL)
	}
	if result.Notes != "all users" {
		t.Fatalf("Notes = %q", result.Notes)
	}

	if payload["model"] != "test-model" {
		t.Fatalf("model = %v", payload["model"])
	}
	format, ok := payload["response_format"].(map[string]any)
	if !ok || format["type"] != "json_object" {
		t.Fatalf("response_format = %v", payload["response_format"])
	}
	messages, ok := payload["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("messages = %v", payload["messages"])
	}
	system := messages[0].(map[string]any)
	if system["role"] != "system" || !strings.Contains(system["content"].(string), "public.users: id (integer)") {
		t.Fatalf("system message = %v", system)
	}
	user := messages[1].(map[string]any)
	if user["role"] != "user" || user["content"] != "list all users" {
		t.Fatalf("user message = %v", user)
	}
}

func TestTranslateEmptyContentIsNoResponse(t *testing.T) {
	server := chatServer(t, "", nil)
	defer server.Close()

	_, err := newTestTranslator(t, server.URL).Translate(context.Background(), Request{Question: "q"})
	if !errors.Is(err, ErrNoResponse) {
		t.Fatalf("error = %v, want ErrNoResponse", err)
	}
}

func TestTranslateEmptyChoicesIsNoResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	_, err := newTestTranslator(t, server.URL).Translate(context.Background(), Request{Question: "q"})
	if !errors.Is(err, ErrNoResponse) {
		t.Fatalf("error = %v, want ErrNoResponse", err)
	}
}

func TestTranslateNonJSONContentIsInvalidJSON(t *testing.T) {
	server := chatServer(t, "SELECT 1 -- here you go", nil)
	defer server.Close()

	_, err := newTestTranslator(t, server.URL).Translate(context.Background(), Request{Question: "q"})
	if !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("error = %v, want ErrInvalidJSON", err)
	}
}

func TestTranslateMissingSQLKeyIsNoSQL(t *testing.T) {
	server := chatServer(t, `{"notes":"I could not find a table"}`, nil)
	defer server.Close()

	_, err := newTestTranslator(t, server.URL).Translate(context.Background(), Request{Question: "q"})
	if !errors.Is(err, ErrNoSQL) {
		t.Fatalf("error = %v, want ErrNoSQL", err)
	}
}

func TestTranslateUpstreamErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestTranslator(t, server.URL).Translate(context.Background(), Request{Question: "q"})
	if err == nil {
		t.Fatal("expected error for upstream failure status")
	}
}

func TestNewOpenAITranslatorValidation(t *testing.T) {
	if _, err := NewOpenAITranslator(OpenAIConfig{APIKey: "k"}); err == nil {
		t.Fatal("expected error for missing base URL")
	}
	if _, err := NewOpenAITranslator(OpenAIConfig{BaseURL: "https://api.openai.com"}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
