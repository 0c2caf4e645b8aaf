package sse

import (
	"bufio"
	"encoding/json"
	"fmt"
)

// DoneMarker is the data payload of the final event of a stream.
const DoneMarker = "[DONE]"

// Event represents an SSE event to be sent to clients
type Event struct {
	// Event is the SSE event type. If empty, no "event:" line is written
	// and browsers dispatch it as a plain message.
	Event string

	// Data is the payload to send (JSON-encoded if not a string)
	Data interface{}

	// ID is an optional event ID for reconnection support
	ID string
}

// Send writes an SSE event to the given writer and flushes immediately
func Send(w *bufio.Writer, event Event) error {
	if event.ID != "" {
		if _, err := fmt.Fprintf(w, "id: %s\n", event.ID); err != nil {
			return fmt.Errorf("failed to write event ID: %w", err)
		}
	}

	if event.Event != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", event.Event); err != nil {
			return fmt.Errorf("failed to write event type: %w", err)
		}
	}

	var dataStr string
	switch v := event.Data.(type) {
	case string:
		dataStr = v
	case []byte:
		dataStr = string(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal event data: %w", err)
		}
		dataStr = string(data)
	}

	if _, err := fmt.Fprintf(w, "data: %s\n\n", dataStr); err != nil {
		return fmt.Errorf("failed to write event data: %w", err)
	}

	return w.Flush()
}

// SendToken sends one streamed text fragment.
func SendToken(w *bufio.Writer, token string) error {
	return Send(w, Event{Data: map[string]string{"token": token}})
}

// SendTitle announces a new conversation title.
func SendTitle(w *bufio.Writer, title string) error {
	return Send(w, Event{Data: map[string]string{"title": title}})
}

// SendError sends an error event
func SendError(w *bufio.Writer, err error) error {
	return Send(w, Event{Data: map[string]string{"error": err.Error()}})
}

// SendDone terminates the stream.
func SendDone(w *bufio.Writer) error {
	return Send(w, Event{Data: DoneMarker})
}
