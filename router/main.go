package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/college-hub/config"
	"github.com/sahilchouksey/college-hub/database"
	"github.com/sahilchouksey/college-hub/handlers"
	chat_handlers "github.com/sahilchouksey/college-hub/handlers/chat"
	colleges_handlers "github.com/sahilchouksey/college-hub/handlers/colleges"
	dashboard_handlers "github.com/sahilchouksey/college-hub/handlers/dashboard"
	grades_handlers "github.com/sahilchouksey/college-hub/handlers/grades"
	profile_handlers "github.com/sahilchouksey/college-hub/handlers/profile"
	tracker_handlers "github.com/sahilchouksey/college-hub/handlers/tracker"
	"github.com/sahilchouksey/college-hub/services"
	"github.com/sahilchouksey/college-hub/utils/cache"
	"github.com/sahilchouksey/college-hub/utils/logger"
	"github.com/sahilchouksey/college-hub/utils/middleware"
	"github.com/sahilchouksey/college-hub/utils/upload"
)

// Dependencies are the long-lived collaborators the routes are built on.
type Dependencies struct {
	Store database.Storage
	Model services.ChatModel
	// StatusCache is optional.
	StatusCache *cache.RedisCache
	Env         *config.EnvironmentVariable
	Log         *logger.Logger
	// StaticDir is served under /static when set.
	StaticDir string
	// UploadDir holds transcript uploads while they are processed.
	UploadDir string
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	env, log := deps.Env, deps.Log

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    env.ALLOWED_ORIGINS,
		RateLimitRequests: env.RATE_LIMIT_PER_MINUTE,
		RateLimitWindow:   time.Minute,
		SkipRateLimit: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/static/")
		},
	})

	if deps.StaticDir != "" {
		app.Static("/static", deps.StaticDir)
	}

	// Services
	counselor := services.NewCounselor(deps.Model, log.With("component", "counselor"))
	parser := services.NewTranscriptParser(deps.Model, log.With("component", "transcript"))
	chatService := services.NewChatService(deps.Store, counselor, log.With("component", "chat"))
	collegeService := services.NewCollegeService(deps.Store, counselor, log.With("component", "colleges"))
	transcriptService := services.NewTranscriptService(counselor, parser, log.With("component", "transcript"))

	// Handlers
	healthHandler := handlers.NewHealthHandler(deps.Store, deps.Model, deps.StatusCache, env.STATUS_CACHE_TTL, log)
	dashboardHandler := dashboard_handlers.NewDashboardHandler(deps.Store, log)
	gradesHandler := grades_handlers.NewGradesHandler(deps.Store, transcriptService,
		upload.Limits{MaxBytes: int64(env.UPLOAD_MAX_BYTES)}, deps.UploadDir, log)
	profileHandler := profile_handlers.NewProfileHandler(deps.Store, log)
	chatHandler := chat_handlers.NewChatHandler(deps.Store, chatService, log)
	collegesHandler := colleges_handlers.NewCollegesHandler(deps.Store, collegeService, log)
	trackerHandler := tracker_handlers.NewTrackerHandler(deps.Store, log)

	// Health and status
	app.Get("/ping", healthHandler.Ping)
	app.Get("/api/llm-status", healthHandler.LLMStatus)

	// Dashboard
	app.Get("/", dashboardHandler.Page)

	// Grades
	grades := app.Group("/grades")
	grades.Get("/", gradesHandler.Page)
	grades.Post("/add", gradesHandler.AddCourse)
	grades.Post("/delete/:id", gradesHandler.DeleteCourse)
	grades.Post("/scores", gradesHandler.UpdateScores)
	grades.Post("/upload", gradesHandler.Upload)
	grades.Post("/import", gradesHandler.Import)

	// Profile
	profile := app.Group("/profile")
	profile.Get("/", profileHandler.Page)
	profile.Post("/save", profileHandler.Save)

	// Chat
	chat := app.Group("/chat")
	chat.Get("/", chatHandler.Page)
	chat.Post("/new", chatHandler.NewConversation)
	chat.Get("/:id/messages", chatHandler.Messages)
	chat.Post("/:id/send", chatHandler.Send)
	chat.Post("/:id/delete", chatHandler.Delete)

	// College matches
	colleges := app.Group("/colleges")
	colleges.Get("/", collegesHandler.Page)
	colleges.Post("/generate", collegesHandler.Generate)
	colleges.Post("/clear", collegesHandler.Clear)
	colleges.Post("/track", collegesHandler.Track)

	// Application tracker
	tracker := app.Group("/tracker")
	tracker.Get("/", trackerHandler.Page)
	tracker.Post("/add", trackerHandler.Add)
	tracker.Post("/update/:id", trackerHandler.Update)
	tracker.Post("/delete/:id", trackerHandler.Delete)
}
