package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/college-hub/database"
	"github.com/sahilchouksey/college-hub/services"
	"github.com/sahilchouksey/college-hub/utils/logger"
	"github.com/sahilchouksey/college-hub/utils/response"
)

// ModelUnavailableMessage is shown when the liveness probe fails.
const ModelUnavailableMessage = "Ollama is not running. Please start Ollama and try again."

// ParseID reads a positive integer route parameter.
func ParseID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// RespondError maps service and store errors onto the JSON envelope.
// Anything unrecognised is logged and reported as a 500 with fallback.
func RespondError(c *fiber.Ctx, log *logger.Logger, err error, fallback string) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return response.NotFound(c, "")
	case errors.Is(err, services.ErrModelUnavailable):
		return response.ServiceUnavailable(c, ModelUnavailableMessage)
	case errors.Is(err, services.ErrEmptyMessage):
		return response.BadRequest(c, "Empty message")
	case errors.Is(err, services.ErrUnsupportedFileType):
		return response.BadRequest(c, "Only PDF and DOCX files are supported")
	case errors.Is(err, services.ErrNoTextExtracted):
		return response.BadRequest(c, "Could not extract any text from the file")
	case errors.Is(err, services.ErrNoCoursesFound):
		return response.BadRequest(c, "No courses found in the transcript")
	}

	log.Error(fallback, "method", c.Method(), "path", c.Path(), "error", err)
	return response.ErrorWithDetails(c, fiber.StatusInternalServerError, fallback, "INTERNAL_ERROR", err.Error())
}
