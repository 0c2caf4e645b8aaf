package colleges

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/college-hub/database"
	"github.com/sahilchouksey/college-hub/handlers"
	"github.com/sahilchouksey/college-hub/model"
	"github.com/sahilchouksey/college-hub/services"
	"github.com/sahilchouksey/college-hub/utils/logger"
	"github.com/sahilchouksey/college-hub/utils/response"
	"github.com/sahilchouksey/college-hub/utils/validation"
)

type CollegesHandler struct {
	store          database.Storage
	collegeService *services.CollegeService
	validator      *validation.Validator
	log            *logger.Logger
}

func NewCollegesHandler(store database.Storage, collegeService *services.CollegeService, log *logger.Logger) *CollegesHandler {
	return &CollegesHandler{
		store:          store,
		collegeService: collegeService,
		validator:      validation.NewValidator(),
		log:            log,
	}
}

// TrackRequest is the body of POST /colleges/track
type TrackRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// Page handles GET /colleges
func (h *CollegesHandler) Page(c *fiber.Ctx) error {
	matches, err := h.store.ListCollegeMatches(c.UserContext())
	if err != nil {
		return handlers.RespondError(c, h.log, err, "Failed to load college matches")
	}

	grouped := map[string][]model.CollegeMatch{}
	for _, tier := range model.Tiers {
		grouped[tier] = []model.CollegeMatch{}
	}
	for _, m := range matches {
		grouped[m.Tier] = append(grouped[m.Tier], m)
	}

	return c.Render("colleges", fiber.Map{
		"Active":  "colleges",
		"Tiers":   model.Tiers,
		"Grouped": grouped,
		"Total":   len(matches),
	}, "layouts/main")
}

// Generate handles POST /colleges/generate
func (h *CollegesHandler) Generate(c *fiber.Ctx) error {
	count, err := h.collegeService.GenerateMatches(c.UserContext())
	if err != nil {
		return handlers.RespondError(c, h.log, err, "Failed to generate college matches")
	}

	return response.SuccessWithMessage(c, fmt.Sprintf("Generated %d college matches", count), fiber.Map{"count": count})
}

// Clear handles POST /colleges/clear
func (h *CollegesHandler) Clear(c *fiber.Ctx) error {
	if err := h.store.ClearCollegeMatches(c.UserContext()); err != nil {
		return handlers.RespondError(c, h.log, err, "Failed to clear college matches")
	}
	return response.SuccessWithMessage(c, "College matches cleared", nil)
}

// Track handles POST /colleges/track
func (h *CollegesHandler) Track(c *fiber.Ctx) error {
	var req TrackRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Name = validation.SanitizeString(req.Name)
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	app, err := h.store.AddApplication(c.UserContext(), req.Name, nil, model.DefaultAppType)
	if err != nil {
		return handlers.RespondError(c, h.log, err, "Failed to track college")
	}
	return response.Created(c, app)
}
