package chat

import (
	"bufio"
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/college-hub/database"
	"github.com/sahilchouksey/college-hub/handlers"
	"github.com/sahilchouksey/college-hub/services"
	"github.com/sahilchouksey/college-hub/utils/logger"
	"github.com/sahilchouksey/college-hub/utils/response"
	"github.com/sahilchouksey/college-hub/utils/sse"
)

var errClientGone = errors.New("client disconnected")

// ChatHandler serves the counselor chat page and its JSON/SSE endpoints.
type ChatHandler struct {
	store       database.Storage
	chatService *services.ChatService
	log         *logger.Logger
}

func NewChatHandler(store database.Storage, chatService *services.ChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{store: store, chatService: chatService, log: log}
}

// SendMessageRequest is the body of POST /chat/:id/send
type SendMessageRequest struct {
	Message string `json:"message"`
}

// Page handles GET /chat
func (h *ChatHandler) Page(c *fiber.Ctx) error {
	conversations, err := h.store.ListConversations(c.UserContext())
	if err != nil {
		return handlers.RespondError(c, h.log, err, "Failed to load conversations")
	}

	return c.Render("chat", fiber.Map{
		"Active":        "chat",
		"Conversations": conversations,
	}, "layouts/main")
}

// NewConversation handles POST /chat/new
func (h *ChatHandler) NewConversation(c *fiber.Ctx) error {
	conv, err := h.store.CreateConversation(c.UserContext(), "")
	if err != nil {
		return handlers.RespondError(c, h.log, err, "Failed to create conversation")
	}
	return response.Created(c, conv)
}

// Messages handles GET /chat/:id/messages
func (h *ChatHandler) Messages(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid conversation ID")
	}

	ctx := c.UserContext()
	if _, err := h.store.GetConversation(ctx, id); err != nil {
		return handlers.RespondError(c, h.log, err, "Failed to load conversation")
	}
	messages, err := h.store.ListMessages(ctx, id)
	if err != nil {
		return handlers.RespondError(c, h.log, err, "Failed to load messages")
	}

	return response.Success(c, messages)
}

// Send handles POST /chat/:id/send. Validation, the liveness probe and
// storing the user's message happen before the response switches to
// an event stream, so those failures still get a JSON status.
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid conversation ID")
	}

	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	turn, err := h.chatService.BeginTurn(c.UserContext(), id, req.Message)
	if err != nil {
		return handlers.RespondError(c, h.log, err, "Failed to send message")
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		// The fiber context is not valid inside the stream writer.
		ctx := context.Background()

		emit := &streamEmitter{w: w}
		if _, err := h.chatService.Relay(ctx, turn, emit); err != nil {
			h.log.Error("failed to store chat reply", "conversation_id", id, "error", err)
		}
		if emit.gone {
			return
		}
		_ = sse.SendDone(w)
	})

	return nil
}

// Delete handles POST /chat/:id/delete
func (h *ChatHandler) Delete(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid conversation ID")
	}

	if err := h.store.DeleteConversation(c.UserContext(), id); err != nil {
		return handlers.RespondError(c, h.log, err, "Failed to delete conversation")
	}
	return response.SuccessWithMessage(c, "Conversation deleted", nil)
}

// streamEmitter writes relay events as SSE data lines and remembers a
// failed write so nothing more is sent.
type streamEmitter struct {
	w    *bufio.Writer
	gone bool
}

func (e *streamEmitter) send(write func(*bufio.Writer) error) error {
	if e.gone {
		return errClientGone
	}
	if err := write(e.w); err != nil {
		e.gone = true
		return err
	}
	return nil
}

func (e *streamEmitter) Token(text string) error {
	return e.send(func(w *bufio.Writer) error { return sse.SendToken(w, text) })
}

func (e *streamEmitter) Error(err error) error {
	return e.send(func(w *bufio.Writer) error { return sse.SendError(w, err) })
}

func (e *streamEmitter) Title(title string) error {
	return e.send(func(w *bufio.Writer) error { return sse.SendTitle(w, title) })
}
