package services

import (
	"context"
	"strings"

	"github.com/sahilchouksey/college-hub/model"
	"github.com/sahilchouksey/college-hub/utils/logger"
)

// insightConversations is how many recent conversations feed the
// recommendation prompt.
const insightConversations = 3

// CollegeStore is the persistence surface used for match generation.
type CollegeStore interface {
	GetProfile(ctx context.Context) (*model.Profile, error)
	ListCourses(ctx context.Context) ([]model.Course, error)
	ListConversations(ctx context.Context) ([]model.Conversation, error)
	ListMessages(ctx context.Context, conversationID uint) ([]model.Message, error)
	ReplaceCollegeMatches(ctx context.Context, matches []model.CollegeMatch) error
}

type CollegeService struct {
	store     CollegeStore
	counselor *Counselor
	log       *logger.Logger
}

func NewCollegeService(store CollegeStore, counselor *Counselor, log *logger.Logger) *CollegeService {
	return &CollegeService{store: store, counselor: counselor, log: log}
}

// GenerateMatches regenerates the full match set and returns how many
// matches were stored.
func (s *CollegeService) GenerateMatches(ctx context.Context) (int, error) {
	if !s.counselor.Available(ctx) {
		return 0, ErrModelUnavailable
	}

	profile, err := s.store.GetProfile(ctx)
	if err != nil {
		return 0, err
	}
	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return 0, err
	}
	insights, err := s.Insights(ctx)
	if err != nil {
		return 0, err
	}

	matches, err := s.counselor.GenerateCollegeMatches(ctx, profile, courses, model.CalculateGPA(courses), insights)
	if err != nil {
		return 0, err
	}

	if err := s.store.ReplaceCollegeMatches(ctx, matches); err != nil {
		return 0, err
	}
	return len(matches), nil
}

// Insights concatenates the counselor's replies from the most recently
// active conversations, capped at MaxInsightsLength characters.
func (s *CollegeService) Insights(ctx context.Context) (string, error) {
	conversations, err := s.store.ListConversations(ctx)
	if err != nil {
		return "", err
	}
	if len(conversations) > insightConversations {
		conversations = conversations[:insightConversations]
	}

	var b strings.Builder
	for _, c := range conversations {
		messages, err := s.store.ListMessages(ctx, c.ID)
		if err != nil {
			return "", err
		}
		for _, m := range messages {
			if m.Role == model.MessageRoleAssistant {
				b.WriteString(m.Content)
				b.WriteString("\n")
			}
		}
	}
	return truncateRunes(b.String(), MaxInsightsLength), nil
}
