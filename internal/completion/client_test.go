package completion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func completionServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *OpenAIClient) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewOpenAIClient(Config{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
	})
	return srv, client
}

func TestCompleteSuccess(t *testing.T) {
	var gotReq chatRequest
	var gotAuth string

	_, client := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotReq)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": `[{"date":"2026-02-03"}]`}},
			},
		})
	})

	reply, err := client.Complete(context.Background(), "extract the games")
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if reply != `[{"date":"2026-02-03"}]` {
		t.Errorf("reply = %q", reply)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReq.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Content != "extract the games" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
}

func TestCompleteMissingAPIKey(t *testing.T) {
	client := NewOpenAIClient(Config{BaseURL: "http://localhost:1", Model: "m"})
	if _, err := client.Complete(context.Background(), "hi"); err == nil {
		t.Error("expected error without API key")
	}
}

func TestCompleteAPIError(t *testing.T) {
	_, client := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	})

	if _, err := client.Complete(context.Background(), "hi"); err == nil {
		t.Error("expected error on non-200 status")
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	_, client := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	})

	if _, err := client.Complete(context.Background(), "hi"); err == nil {
		t.Error("expected error on empty choices")
	}
}

func TestCompleteMalformedResponse(t *testing.T) {
	_, client := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	if _, err := client.Complete(context.Background(), "hi"); err == nil {
		t.Error("expected error on malformed body")
	}
}
