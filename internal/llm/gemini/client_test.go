package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateContentReturnsCandidateText(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"hello "},{"text":"world"}]}}]}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", "gemini-2.0-flash")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	client.WithBaseURL(server.URL)

	out, err := client.GenerateContent(context.Background(), "say hello")
	if err != nil {
		t.Fatalf("generate content: %v", err)
	}
	if out != "hello world" {
		t.Fatalf("expected joined candidate text, got %q", out)
	}
	if !strings.HasSuffix(gotPath, "/models/gemini-2.0-flash:generateContent") {
		t.Fatalf("unexpected request path %q", gotPath)
	}
	if _, ok := gotBody["contents"]; !ok {
		t.Fatalf("request body missing contents: %v", gotBody)
	}
}

func TestGenerateContentSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"Resource has been exhausted (e.g. check quota).","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", "gemini-2.0-flash")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	client.WithBaseURL(server.URL)

	_, err = client.GenerateContent(context.Background(), "anything")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected error message to carry the status code, got %v", err)
	}
}

func TestGenerateContentRejectsEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", "gemini-2.0-flash")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	client.WithBaseURL(server.URL)

	if _, err := client.GenerateContent(context.Background(), "anything"); err == nil {
		t.Fatalf("expected error for empty candidates")
	}
}

func TestNewClientRequiresModelAndKey(t *testing.T) {
	if _, err := NewClient("", "gemini-2.0-flash"); err == nil {
		t.Fatalf("expected error for missing api key")
	}
	if _, err := NewClient("key", ""); err == nil {
		t.Fatalf("expected error for missing model")
	}
}
