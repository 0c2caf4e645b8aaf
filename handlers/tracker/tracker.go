package tracker

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/college-hub/database"
	"github.com/sahilchouksey/college-hub/handlers"
	"github.com/sahilchouksey/college-hub/model"
	"github.com/sahilchouksey/college-hub/utils/logger"
	"github.com/sahilchouksey/college-hub/utils/response"
	"github.com/sahilchouksey/college-hub/utils/validation"
)

// Status, application type and essay options offered by the tracker page.
var (
	Statuses     = []string{"Researching", "In Progress", "Submitted", "Accepted", "Rejected", "Waitlisted", "Deferred"}
	AppTypes     = []string{"Early Decision", "Early Action", "Regular Decision", "Rolling"}
	EssayOptions = []string{"Not Started", "Drafting", "Revising", "Complete"}
)

type TrackerHandler struct {
	store     database.Storage
	validator *validation.Validator
	log       *logger.Logger
}

func NewTrackerHandler(store database.Storage, log *logger.Logger) *TrackerHandler {
	return &TrackerHandler{store: store, validator: validation.NewValidator(), log: log}
}

// AddApplicationRequest is the tracker's add form.
type AddApplicationRequest struct {
	CollegeName string `validate:"required,max=200"`
	Deadline    string `validate:"omitempty,datetime=2006-01-02"`
	AppType     string `validate:"required,max=100"`
}

// Page handles GET /tracker
func (h *TrackerHandler) Page(c *fiber.Ctx) error {
	apps, err := h.store.ListApplications(c.UserContext())
	if err != nil {
		return handlers.RespondError(c, h.log, err, "Failed to load applications")
	}

	return c.Render("tracker", fiber.Map{
		"Active":       "tracker",
		"Applications": apps,
		"Statuses":     Statuses,
		"AppTypes":     AppTypes,
		"EssayOptions": EssayOptions,
	}, "layouts/main")
}

// Add handles POST /tracker/add
func (h *TrackerHandler) Add(c *fiber.Ctx) error {
	req := AddApplicationRequest{
		CollegeName: validation.SanitizeString(c.FormValue("college_name")),
		Deadline:    strings.TrimSpace(c.FormValue("deadline")),
		AppType:     validation.SanitizeString(c.FormValue("app_type", model.DefaultAppType)),
	}
	if req.AppType == "" {
		req.AppType = model.DefaultAppType
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var deadline *string
	if req.Deadline != "" {
		deadline = &req.Deadline
	}
	if _, err := h.store.AddApplication(c.UserContext(), req.CollegeName, deadline, req.AppType); err != nil {
		return handlers.RespondError(c, h.log, err, "Failed to add application")
	}

	return c.Redirect("/tracker", fiber.StatusSeeOther)
}

// Update handles POST /tracker/update/:id. The body may carry any subset
// of the editable fields; unknown keys are ignored.
func (h *TrackerHandler) Update(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid application ID")
	}

	patch, err := ParseApplicationPatch(c.Body())
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	if err := h.store.UpdateApplication(c.UserContext(), id, patch); err != nil {
		return handlers.RespondError(c, h.log, err, "Failed to update application")
	}
	return response.SuccessWithMessage(c, "Application updated", nil)
}

// Delete handles POST /tracker/delete/:id
func (h *TrackerHandler) Delete(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid application ID")
	}

	if err := h.store.DeleteApplication(c.UserContext(), id); err != nil {
		return handlers.RespondError(c, h.log, err, "Failed to delete application")
	}
	return response.SuccessWithMessage(c, "Application deleted", nil)
}
