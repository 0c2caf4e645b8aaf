package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/sahilchouksey/college-hub/utils/logger"
	"github.com/sahilchouksey/college-hub/utils/response"
)

// multipartOverhead leaves room for multipart boundaries and form fields
// around an upload of the maximum size.
const multipartOverhead = 1 << 20

const shutdownTimeout = 10 * time.Second

type APIServer struct {
	app           *fiber.App
	listenAddress string
	log           *logger.Logger
}

// Options configures the Fiber application.
type Options struct {
	ViewsDir       string
	UploadMaxBytes int
	// ReloadViews re-parses templates on every render (development).
	ReloadViews bool
}

func NewAPIServer(listenAddress string, opts Options, log *logger.Logger) *APIServer {
	engine := html.New(opts.ViewsDir, ".html")
	engine.Reload(opts.ReloadViews)
	engine.AddFunc("pct", func(part, total int) int {
		if total == 0 {
			return 0
		}
		return part * 100 / total
	})
	engine.AddFunc("deref", func(v *int) interface{} {
		if v == nil {
			return ""
		}
		return *v
	})
	engine.AddFunc("derefString", func(v *string) string {
		if v == nil {
			return ""
		}
		return *v
	})

	app := fiber.New(fiber.Config{
		AppName:               "College Application Hub",
		Views:                 engine,
		BodyLimit:             opts.UploadMaxBytes + multipartOverhead,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(log),
	})

	return &APIServer{
		app:           app,
		listenAddress: listenAddress,
		log:           log,
	}
}

func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

func (s *APIServer) Run() error {
	s.log.Info("starting API server", "address", s.listenAddress)
	return s.app.Listen(s.listenAddress)
}

// Shutdown stops accepting connections and waits for open requests.
// Shutdown stops accepting connections and waits up to shutdownTimeout
// for in-flight requests, including open chat streams.
func (s *APIServer) Shutdown() error {
	return s.app.ShutdownWithTimeout(shutdownTimeout)
}

// errorHandler renders errors that escape handlers, such as unknown
// routes and oversize bodies, in the JSON envelope.
func errorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			switch fe.Code {
			case fiber.StatusNotFound:
				return response.NotFound(c, "")
			case fiber.StatusRequestEntityTooLarge:
				return response.PayloadTooLarge(c, "Request body too large")
			}
			return response.Error(c, fe.Code, fe.Message, "HTTP_ERROR")
		}

		log.Error("unhandled request error", "method", c.Method(), "path", c.Path(), "error", err)
		return response.InternalServerError(c, "")
	}
}
