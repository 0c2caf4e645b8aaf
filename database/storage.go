package database

import (
	"context"

	"github.com/sahilchouksey/college-hub/model"
)

// Storage is the full persistence surface used by the application.
type Storage interface {
	// Lifecycle methods
	Init() error
	Close() error
	HealthCheck() error

	// Profile
	GetProfile(ctx context.Context) (*model.Profile, error)
	UpdateProfile(ctx context.Context, patch model.ProfilePatch) error

	// Courses
	ListCourses(ctx context.Context) ([]model.Course, error)
	GetCourse(ctx context.Context, id uint) (*model.Course, error)
	AddCourse(ctx context.Context, course *model.Course) error
	DeleteCourse(ctx context.Context, id uint) error
	ImportCourses(ctx context.Context, courses []model.Course) (int, error)

	// Conversations
	ListConversations(ctx context.Context) ([]model.Conversation, error)
	GetConversation(ctx context.Context, id uint) (*model.Conversation, error)
	CreateConversation(ctx context.Context, title string) (*model.Conversation, error)
	UpdateConversationTitle(ctx context.Context, id uint, title string) error
	DeleteConversation(ctx context.Context, id uint) error
	ListMessages(ctx context.Context, conversationID uint) ([]model.Message, error)
	CountMessages(ctx context.Context, conversationID uint) (int64, error)
	AddMessage(ctx context.Context, conversationID uint, role model.MessageRole, content string) (*model.Message, error)

	// College matches
	ListCollegeMatches(ctx context.Context) ([]model.CollegeMatch, error)
	ReplaceCollegeMatches(ctx context.Context, matches []model.CollegeMatch) error
	ClearCollegeMatches(ctx context.Context) error

	// Applications
	ListApplications(ctx context.Context) ([]model.Application, error)
	GetApplication(ctx context.Context, id uint) (*model.Application, error)
	AddApplication(ctx context.Context, collegeName string, deadline *string, appType string) (*model.Application, error)
	UpdateApplication(ctx context.Context, id uint, patch model.ApplicationPatch) error
	DeleteApplication(ctx context.Context, id uint) error

	// Derived
	DashboardStats(ctx context.Context) (*DashboardStats, error)
}

var _ Storage = (*GORMStore)(nil)
