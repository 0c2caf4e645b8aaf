package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sahilchouksey/college-hub/model"
	"github.com/sahilchouksey/college-hub/utils/logger"
)

// ErrEmptyMessage is returned when a chat message is blank.
var ErrEmptyMessage = errors.New("empty message")

const titleLength = 50

// ChatStore is the persistence surface the chat relay uses.
type ChatStore interface {
	GetProfile(ctx context.Context) (*model.Profile, error)
	ListCourses(ctx context.Context) ([]model.Course, error)
	GetConversation(ctx context.Context, id uint) (*model.Conversation, error)
	ListMessages(ctx context.Context, conversationID uint) ([]model.Message, error)
	CountMessages(ctx context.Context, conversationID uint) (int64, error)
	AddMessage(ctx context.Context, conversationID uint, role model.MessageRole, content string) (*model.Message, error)
	UpdateConversationTitle(ctx context.Context, id uint, title string) error
}

// StreamEmitter receives relay events. A non-nil error from any method
// means the client is gone; the relay stops emitting and cancels the
// model request.
type StreamEmitter interface {
	Token(text string) error
	Error(err error) error
	Title(title string) error
}

// ChatService relays counselor replies and persists the exchange.
type ChatService struct {
	store     ChatStore
	counselor *Counselor
	log       *logger.Logger
}

func NewChatService(store ChatStore, counselor *Counselor, log *logger.Logger) *ChatService {
	return &ChatService{store: store, counselor: counselor, log: log}
}

// ChatTurn is a user message that has been stored and is waiting for
// the counselor's reply.
type ChatTurn struct {
	ConversationID uint
	UserMessage    string

	profile *model.Profile
	courses []model.Course
	history []model.Message
}

// BeginTurn validates and stores the user's message and loads the context
// for the reply. The model liveness probe runs before anything is stored.
func (s *ChatService) BeginTurn(ctx context.Context, conversationID uint, text string) (*ChatTurn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	if _, err := s.store.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}

	if !s.counselor.Available(ctx) {
		return nil, ErrModelUnavailable
	}

	if _, err := s.store.AddMessage(ctx, conversationID, model.MessageRoleUser, text); err != nil {
		return nil, err
	}

	profile, err := s.store.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	history, err := s.store.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	return &ChatTurn{
		ConversationID: conversationID,
		UserMessage:    text,
		profile:        profile,
		courses:        courses,
		history:        history,
	}, nil
}

// Relay streams the counselor's reply to emit fragment by fragment, then
// stores it. A model failure is emitted and appended to the stored reply
// as "[Error: ...]". If the client goes away the model request is
// cancelled and the partial reply is still stored. On the first exchange
// the conversation is titled after the user's message.
func (s *ChatService) Relay(ctx context.Context, turn *ChatTurn, emit StreamEmitter) (*model.Message, error) {
	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	gpa := model.CalculateGPA(turn.courses)
	chunks := s.counselor.StreamChat(streamCtx, turn.profile, turn.courses, gpa, turn.history)

	var reply strings.Builder
	clientGone := false
	var streamErr error

	for chunk := range chunks {
		if chunk.Err != nil {
			streamErr = chunk.Err
			continue
		}
		reply.WriteString(chunk.Content)
		if clientGone {
			continue
		}
		if err := emit.Token(chunk.Content); err != nil {
			clientGone = true
			cancel()
		}
	}

	if streamErr != nil && !clientGone {
		s.log.Warn("model stream failed", "conversation_id", turn.ConversationID, "error", streamErr)
		reply.WriteString(fmt.Sprintf("\n\n[Error: %s]", streamErr.Error()))
		if err := emit.Error(streamErr); err != nil {
			clientGone = true
		}
	}

	// The request context may already be cancelled; the reply is saved anyway.
	saveCtx := context.WithoutCancel(ctx)
	message, err := s.store.AddMessage(saveCtx, turn.ConversationID, model.MessageRoleAssistant, reply.String())
	if err != nil {
		return nil, err
	}

	count, err := s.store.CountMessages(saveCtx, turn.ConversationID)
	if err != nil {
		return message, err
	}
	if count <= 2 {
		title := ConversationTitle(turn.UserMessage)
		if err := s.store.UpdateConversationTitle(saveCtx, turn.ConversationID, title); err != nil {
			return message, err
		}
		if !clientGone {
			_ = emit.Title(title)
		}
	}

	if clientGone {
		s.log.Info("client disconnected during reply", "conversation_id", turn.ConversationID, "stored_chars", reply.Len())
	}
	return message, nil
}

// ConversationTitle is the first 50 characters of message, with "..."
// appended when it was cut.
func ConversationTitle(message string) string {
	r := []rune(message)
	if len(r) <= titleLength {
		return message
	}
	return string(r[:titleLength]) + "..."
}
