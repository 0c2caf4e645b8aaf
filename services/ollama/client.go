package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultHost is where a local Ollama daemon listens
	DefaultHost = "http://localhost:11434"
	// DefaultModel is the chat model used when none is configured
	DefaultModel = "llama3.1:8b"
	// DefaultTimeout bounds a whole synchronous chat call
	DefaultTimeout = 120 * time.Second
	// DefaultStreamTimeout bounds a whole streamed reply
	DefaultStreamTimeout = 5 * time.Minute
	// DefaultProbeTimeout bounds the liveness check
	DefaultProbeTimeout = 3 * time.Second
	// DefaultDialTimeout is the timeout for establishing TCP connections
	DefaultDialTimeout = 10 * time.Second
	// DefaultHeaderTimeout is the timeout for waiting for response headers
	DefaultHeaderTimeout = 30 * time.Second

	maxLineSize = 1024 * 1024
)

// ErrIncompleteStream is reported when the daemon closes a stream without
// a final done message.
var ErrIncompleteStream = errors.New("model stream ended before completion")

// Message is one chat turn in the Ollama wire format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// chatResponse is both the synchronous reply and one line of a stream.
type chatResponse struct {
	Model   string  `json:"model"`
	Message Message `json:"message"`
	Done    bool    `json:"done"`
	Error   string  `json:"error,omitempty"`
}

// StreamChunk is one element of a streamed reply. A chunk with Err set is
// always the last one sent.
type StreamChunk struct {
	Content string
	Err     error
}

// Config holds configuration for the Ollama client
type Config struct {
	Host          string
	Model         string
	Timeout       time.Duration
	StreamTimeout time.Duration
	ProbeTimeout  time.Duration
}

// Client talks to an Ollama daemon over its HTTP API.
type Client struct {
	host            string
	model           string
	httpClient      *http.Client // synchronous calls, whole-request timeout
	probeClient     *http.Client
	streamingClient *http.Client // no client timeout; bounded by context
	streamTimeout   time.Duration
}

func NewClient(config Config) *Client {
	if config.Host == "" {
		config.Host = DefaultHost
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.StreamTimeout == 0 {
		config.StreamTimeout = DefaultStreamTimeout
	}
	if config.ProbeTimeout == 0 {
		config.ProbeTimeout = DefaultProbeTimeout
	}

	// Client.Timeout would cut long streams; only connection setup and
	// headers are bounded at the transport level.
	streamingTransport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: DefaultDialTimeout,
		}).DialContext,
		ResponseHeaderTimeout: DefaultHeaderTimeout,
		MaxIdleConnsPerHost:   4,
	}

	return &Client{
		host:            strings.TrimSuffix(config.Host, "/"),
		model:           config.Model,
		httpClient:      &http.Client{Timeout: config.Timeout},
		probeClient:     &http.Client{Timeout: config.ProbeTimeout},
		streamingClient: &http.Client{Transport: streamingTransport},
		streamTimeout:   config.StreamTimeout,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Ping reports whether the daemon answers its model listing endpoint.
// It never returns an error; any failure means unavailable.
func (c *Client) Ping(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := c.probeClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

// Chat sends messages and waits for the complete reply.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	resp, err := c.post(ctx, c.httpClient, chatRequest{Model: c.model, Messages: messages, Stream: false})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("ollama error: %s", out.Error)
	}

	return out.Message.Content, nil
}

// StreamChat starts a streamed reply. Fragments are delivered on the
// returned channel as they arrive; the channel is closed when the reply
// is complete, after a terminal error chunk, or once ctx is done.
func (c *Client) StreamChat(ctx context.Context, messages []Message) <-chan StreamChunk {
	out := make(chan StreamChunk)

	go func() {
		defer close(out)

		ctx, cancel := context.WithTimeout(ctx, c.streamTimeout)
		defer cancel()

		send := func(chunk StreamChunk) bool {
			select {
			case out <- chunk:
				return true
			case <-ctx.Done():
				return false
			}
		}

		resp, err := c.post(ctx, c.streamingClient, chatRequest{Model: c.model, Messages: messages, Stream: true})
		if err != nil {
			send(StreamChunk{Err: err})
			return
		}
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}

			var chunk chatResponse
			if err := json.Unmarshal(line, &chunk); err != nil {
				send(StreamChunk{Err: fmt.Errorf("failed to parse stream chunk: %w", err)})
				return
			}
			if chunk.Error != "" {
				send(StreamChunk{Err: fmt.Errorf("ollama error: %s", chunk.Error)})
				return
			}
			if chunk.Message.Content != "" {
				if !send(StreamChunk{Content: chunk.Message.Content}) {
					return
				}
			}
			if chunk.Done {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			send(StreamChunk{Err: fmt.Errorf("stream read failed: %w", err)})
			return
		}
		send(StreamChunk{Err: ErrIncompleteStream})
	}()

	return out
}

func (c *Client) post(ctx context.Context, httpClient *http.Client, payload chatRequest) (*http.Response, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/chat", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr chatResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("ollama API error: %s - %s", resp.Status, apiErr.Error)
		}
		return nil, fmt.Errorf("ollama API error: %s - %s", resp.Status, strings.TrimSpace(string(body)))
	}

	return resp, nil
}
