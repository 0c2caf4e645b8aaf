package profile

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/college-hub/database"
	"github.com/sahilchouksey/college-hub/handlers"
	"github.com/sahilchouksey/college-hub/model"
	"github.com/sahilchouksey/college-hub/utils/logger"
	"github.com/sahilchouksey/college-hub/utils/response"
	"github.com/sahilchouksey/college-hub/utils/validation"
)

type ProfileHandler struct {
	store     database.Storage
	validator *validation.Validator
	log       *logger.Logger
}

func NewProfileHandler(store database.Storage, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{store: store, validator: validation.NewValidator(), log: log}
}

// SaveProfileRequest bounds the free-text profile fields.
type SaveProfileRequest struct {
	Name             string `validate:"max=200"`
	HighSchool       string `validate:"max=200"`
	GradYear         *int   `validate:"omitempty,min=1900,max=2100"`
	MajorInterests   string `validate:"max=2000"`
	Extracurriculars string `validate:"max=4000"`
	LocationPref     string `validate:"max=200"`
	SizePref         string `validate:"max=100"`
	Budget           string `validate:"max=200"`
	SettingPref      string `validate:"max=100"`
	ImportantFactors string `validate:"max=2000"`
	AdditionalNotes  string `validate:"max=4000"`
}

// Page handles GET /profile
func (h *ProfileHandler) Page(c *fiber.Ctx) error {
	p, err := h.store.GetProfile(c.UserContext())
	if err != nil {
		return handlers.RespondError(c, h.log, err, "Failed to load profile")
	}

	return c.Render("profile", fiber.Map{
		"Active":  "profile",
		"Profile": p,
	}, "layouts/main")
}

// Save handles POST /profile/save. Every text field on the form is
// written, so a blank input clears it; test scores are not touched.
func (h *ProfileHandler) Save(c *fiber.Ctx) error {
	gradYear, err := handlers.OptionalInt(c, "grad_year")
	if err != nil {
		return response.BadRequest(c, "Graduation year must be a whole number")
	}
	if !gradYear.Set {
		gradYear = model.Null[int]()
	}

	req := SaveProfileRequest{
		Name:             validation.SanitizeString(c.FormValue("name")),
		HighSchool:       validation.SanitizeString(c.FormValue("high_school")),
		GradYear:         gradYear.Value,
		MajorInterests:   validation.SanitizeString(c.FormValue("major_interests")),
		Extracurriculars: validation.SanitizeString(c.FormValue("extracurriculars")),
		LocationPref:     validation.SanitizeString(c.FormValue("location_pref")),
		SizePref:         validation.SanitizeString(c.FormValue("size_pref")),
		Budget:           validation.SanitizeString(c.FormValue("budget")),
		SettingPref:      validation.SanitizeString(c.FormValue("setting_pref")),
		ImportantFactors: validation.SanitizeString(c.FormValue("important_factors")),
		AdditionalNotes:  validation.SanitizeString(c.FormValue("additional_notes")),
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	patch := model.ProfilePatch{
		Name:             &req.Name,
		HighSchool:       &req.HighSchool,
		GradYear:         gradYear,
		MajorInterests:   &req.MajorInterests,
		Extracurriculars: &req.Extracurriculars,
		LocationPref:     &req.LocationPref,
		SizePref:         &req.SizePref,
		Budget:           &req.Budget,
		SettingPref:      &req.SettingPref,
		ImportantFactors: &req.ImportantFactors,
		AdditionalNotes:  &req.AdditionalNotes,
	}
	if err := h.store.UpdateProfile(c.UserContext(), patch); err != nil {
		return handlers.RespondError(c, h.log, err, "Failed to save profile")
	}

	return c.Redirect("/profile", fiber.StatusSeeOther)
}
