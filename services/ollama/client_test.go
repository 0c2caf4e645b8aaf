package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{Host: server.URL, Model: "test-model", Timeout: 5 * time.Second, StreamTimeout: 5 * time.Second, ProbeTimeout: time.Second})
}

func collect(ch <-chan StreamChunk) ([]string, error) {
	var tokens []string
	var err error
	for chunk := range ch {
		if chunk.Err != nil {
			err = chunk.Err
			continue
		}
		tokens = append(tokens, chunk.Content)
	}
	return tokens, err
}

func TestPing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" || r.Method != http.MethodGet {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		fmt.Fprint(w, `{"models":[]}`)
	})
	if !client.Ping(context.Background()) {
		t.Error("expected daemon to be available")
	}

	down := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	if down.Ping(context.Background()) {
		t.Error("expected 500 to report unavailable")
	}

	unreachable := NewClient(Config{Host: "http://127.0.0.1:1", ProbeTimeout: 200 * time.Millisecond})
	if unreachable.Ping(context.Background()) {
		t.Error("expected unreachable host to report unavailable")
	}
}

func TestChat(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("expected non-streaming request")
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages %+v", req.Messages)
		}
		fmt.Fprint(w, `{"model":"test-model","message":{"role":"assistant","content":"[1,2]"},"done":true}`)
	})

	reply, err := client.Chat(context.Background(), []Message{
		{Role: "system", Content: "be terse"},
		{Role: "user", Content: "hi"},
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if reply != "[1,2]" {
		t.Errorf("reply = %q", reply)
	}
}

func TestChat_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"model 'test-model' not found"}`)
	})

	_, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestStreamChat(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if !req.Stream {
			t.Error("expected streaming request")
		}
		flusher := w.(http.Flusher)
		for _, tok := range []string{"Hel", "lo", ""} {
			fmt.Fprintf(w, `{"message":{"role":"assistant","content":%q},"done":false}`+"\n", tok)
			flusher.Flush()
		}
		fmt.Fprint(w, `{"message":{"role":"assistant","content":""},"done":true}`+"\n")
	})

	tokens, err := collect(client.StreamChat(context.Background(), []Message{{Role: "user", Content: "hi"}}))
	if err != nil {
		t.Fatalf("unexpected stream error: %v", err)
	}
	if got := strings.Join(tokens, "|"); got != "Hel|lo" {
		t.Errorf("tokens = %q, want %q", got, "Hel|lo")
	}
}

func TestStreamChat_MidStreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"message":{"role":"assistant","content":"partial"},"done":false}`+"\n")
		fmt.Fprint(w, `{"error":"out of memory"}`+"\n")
	})

	tokens, err := collect(client.StreamChat(context.Background(), nil))
	if len(tokens) != 1 || tokens[0] != "partial" {
		t.Errorf("tokens = %v", tokens)
	}
	if err == nil || !strings.Contains(err.Error(), "out of memory") {
		t.Errorf("expected terminal error chunk, got %v", err)
	}
}

func TestStreamChat_Truncated(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"message":{"role":"assistant","content":"cut"},"done":false}`+"\n")
	})

	_, err := collect(client.StreamChat(context.Background(), nil))
	if !errors.Is(err, ErrIncompleteStream) {
		t.Errorf("expected ErrIncompleteStream, got %v", err)
	}
}

func TestStreamChat_ConnectionFailure(t *testing.T) {
	client := NewClient(Config{Host: "http://127.0.0.1:1", StreamTimeout: time.Second})

	tokens, err := collect(client.StreamChat(context.Background(), nil))
	if len(tokens) != 0 {
		t.Errorf("expected no tokens, got %v", tokens)
	}
	if err == nil {
		t.Error("expected connection error as terminal chunk")
	}
}

func TestStreamChat_CancelStopsProducer(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		for i := 0; i < 100; i++ {
			fmt.Fprint(w, `{"message":{"role":"assistant","content":"x"},"done":false}`+"\n")
			flusher.Flush()
		}
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	ch := client.StreamChat(ctx, nil)
	<-ch
	cancel()

	done := make(chan struct{})
	go func() {
		for range ch {
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream channel not closed after cancel")
	}
}
