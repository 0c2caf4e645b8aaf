package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sahilchouksey/college-hub/model"
	"gorm.io/gorm"
)

// ListConversations returns conversations, most recently active first.
func (s *GORMStore) ListConversations(ctx context.Context) ([]model.Conversation, error) {
	var conversations []model.Conversation
	err := s.db.WithContext(ctx).Order("updated_at DESC").Order("id DESC").Find(&conversations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}

func (s *GORMStore) GetConversation(ctx context.Context, id uint) (*model.Conversation, error) {
	var conversation model.Conversation
	if err := s.db.WithContext(ctx).First(&conversation, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &conversation, nil
}

// CreateConversation starts a thread; a blank title gets the default.
func (s *GORMStore) CreateConversation(ctx context.Context, title string) (*model.Conversation, error) {
	if strings.TrimSpace(title) == "" {
		title = model.DefaultConversationTitle
	}
	conversation := &model.Conversation{Title: title}
	if err := s.db.WithContext(ctx).Create(conversation).Error; err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conversation, nil
}

func (s *GORMStore) UpdateConversationTitle(ctx context.Context, id uint, title string) error {
	result := s.db.WithContext(ctx).Model(&model.Conversation{}).Where("id = ?", id).
		Updates(map[string]interface{}{"title": title, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return fmt.Errorf("failed to update conversation title: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteConversation removes a conversation and its messages together.
func (s *GORMStore) DeleteConversation(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&model.Message{}).Error; err != nil {
			return fmt.Errorf("failed to delete messages: %w", err)
		}
		result := tx.Delete(&model.Conversation{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete conversation: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ListMessages returns a conversation's messages in creation order.
func (s *GORMStore) ListMessages(ctx context.Context, conversationID uint) ([]model.Message, error) {
	var messages []model.Message
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

func (s *GORMStore) CountMessages(ctx context.Context, conversationID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Message{}).Where("conversation_id = ?", conversationID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

// AddMessage appends a message and marks the conversation as updated.
func (s *GORMStore) AddMessage(ctx context.Context, conversationID uint, role model.MessageRole, content string) (*model.Message, error) {
	message := &model.Message{ConversationID: conversationID, Role: role, Content: content}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Conversation{}).Where("id = ?", conversationID).
			Update("updated_at", time.Now().UTC())
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Create(message).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add message: %w", err)
	}
	return message, nil
}
