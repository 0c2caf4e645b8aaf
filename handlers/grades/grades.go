package grades

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/college-hub/database"
	"github.com/sahilchouksey/college-hub/handlers"
	"github.com/sahilchouksey/college-hub/model"
	"github.com/sahilchouksey/college-hub/services"
	"github.com/sahilchouksey/college-hub/utils/logger"
	"github.com/sahilchouksey/college-hub/utils/response"
	"github.com/sahilchouksey/college-hub/utils/upload"
	"github.com/sahilchouksey/college-hub/utils/validation"
)

// GradesHandler serves the grades page, manual course entry, test
// scores and the transcript upload/import flow.
type GradesHandler struct {
	store       database.Storage
	transcripts *services.TranscriptService
	validator   *validation.Validator
	limits      upload.Limits
	uploadDir   string
	log         *logger.Logger
}

func NewGradesHandler(store database.Storage, transcripts *services.TranscriptService, limits upload.Limits, uploadDir string, log *logger.Logger) *GradesHandler {
	return &GradesHandler{
		store:       store,
		transcripts: transcripts,
		validator:   validation.NewValidator(),
		limits:      limits,
		uploadDir:   uploadDir,
		log:         log,
	}
}

// AddCourseRequest is the manual course entry form.
type AddCourseRequest struct {
	Name       string  `validate:"required,max=200"`
	Grade      string  `validate:"required,grade"`
	Year       string  `validate:"required,class_year"`
	CourseType string  `validate:"required,course_type"`
	Credits    float64 `validate:"gt=0,lte=10"`
}

// ScoresRequest carries the parsed test scores; nil means cleared or
// not submitted.
type ScoresRequest struct {
	SATScore *int `validate:"omitempty,min=400,max=1600"`
	ACTScore *int `validate:"omitempty,min=1,max=36"`
}

// ImportRequest is the reviewed transcript payload.
type ImportRequest struct {
	Courses []map[string]interface{} `json:"courses"`
}

// Page handles GET /grades
func (h *GradesHandler) Page(c *fiber.Ctx) error {
	ctx := c.UserContext()

	courses, err := h.store.ListCourses(ctx)
	if err != nil {
		return handlers.RespondError(c, h.log, err, "Failed to load courses")
	}
	profile, err := h.store.GetProfile(ctx)
	if err != nil {
		return handlers.RespondError(c, h.log, err, "Failed to load profile")
	}

	return c.Render("grades", fiber.Map{
		"Active":      "grades",
		"Courses":     courses,
		"GPA":         model.CalculateGPA(courses),
		"Profile":     profile,
		"Grades":      model.Grades,
		"Years":       model.Years,
		"CourseTypes": model.CourseTypes,
	}, "layouts/main")
}

// AddCourse handles POST /grades/add
func (h *GradesHandler) AddCourse(c *fiber.Ctx) error {
	req := AddCourseRequest{
		Name:       validation.SanitizeString(c.FormValue("name")),
		Grade:      strings.ToUpper(strings.TrimSpace(c.FormValue("grade"))),
		Year:       c.FormValue("year"),
		CourseType: c.FormValue("course_type", model.DefaultCourseType),
		Credits:    model.DefaultCredits,
	}
	if y, ok := model.CanonicalYear(req.Year); ok {
		req.Year = y
	}
	if t, ok := model.CanonicalCourseType(req.CourseType); ok {
		req.CourseType = t
	}
	if raw := strings.TrimSpace(c.FormValue("credits")); raw != "" {
		credits, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return response.BadRequest(c, "Credits must be a number")
		}
		req.Credits = credits
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	course := model.Course{
		Name:       req.Name,
		Grade:      req.Grade,
		Year:       req.Year,
		CourseType: req.CourseType,
		Credits:    req.Credits,
	}
	if err := h.store.AddCourse(c.UserContext(), &course); err != nil {
		return handlers.RespondError(c, h.log, err, "Failed to add course")
	}

	return c.Redirect("/grades", fiber.StatusSeeOther)
}

// DeleteCourse handles POST /grades/delete/:id
func (h *GradesHandler) DeleteCourse(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	if err := h.store.DeleteCourse(c.UserContext(), id); err != nil {
		return handlers.RespondError(c, h.log, err, "Failed to delete course")
	}

	return c.Redirect("/grades", fiber.StatusSeeOther)
}

// UpdateScores handles POST /grades/scores. A submitted blank score
// clears it; an omitted field is left alone.
func (h *GradesHandler) UpdateScores(c *fiber.Ctx) error {
	sat, err := handlers.OptionalInt(c, "sat_score")
	if err != nil {
		return response.BadRequest(c, "SAT score must be a whole number")
	}
	act, err := handlers.OptionalInt(c, "act_score")
	if err != nil {
		return response.BadRequest(c, "ACT score must be a whole number")
	}

	if err := h.validator.ValidateStruct(ScoresRequest{SATScore: sat.Value, ACTScore: act.Value}); err != nil {
		return response.ValidationError(c, err)
	}

	patch := model.ProfilePatch{SATScore: sat, ACTScore: act}
	if err := h.store.UpdateProfile(c.UserContext(), patch); err != nil {
		return handlers.RespondError(c, h.log, err, "Failed to update scores")
	}

	return c.Redirect("/grades", fiber.StatusSeeOther)
}

// Upload handles POST /grades/upload. The model is probed before the
// file is written to disk; the temp copy is always removed.
func (h *GradesHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "No file uploaded")
	}

	result, err := upload.ValidateTranscriptFile(file, h.limits)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	if !result.Valid {
		if result.TooLarge {
			return response.PayloadTooLarge(c, result.Error)
		}
		return response.BadRequest(c, result.Error)
	}

	ctx := c.UserContext()
	if err := h.transcripts.CheckAvailable(ctx); err != nil {
		return handlers.RespondError(c, h.log, err, "Failed to process transcript")
	}

	path, cleanup, err := upload.SaveTemp(file, h.uploadDir)
	if err != nil {
		return handlers.RespondError(c, h.log, err, "Failed to save upload")
	}
	defer cleanup()

	h.log.Info("processing transcript", "filename", file.Filename, "size", result.FileSize, "pages", result.PageCount)

	records, err := h.transcripts.Process(ctx, path, file.Filename)
	if err != nil {
		return handlers.RespondError(c, h.log, err, "Failed to process transcript")
	}

	return response.Success(c, fiber.Map{"courses": records})
}

// Import handles POST /grades/import
func (h *GradesHandler) Import(c *fiber.Ctx) error {
	var req ImportRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if len(req.Courses) == 0 {
		return response.BadRequest(c, "No courses to import")
	}

	courses := services.NormalizeImportRecords(req.Courses)
	count, err := h.store.ImportCourses(c.UserContext(), courses)
	if err != nil {
		return handlers.RespondError(c, h.log, err, "Failed to import courses")
	}

	return response.SuccessWithMessage(c, fmt.Sprintf("Imported %d courses", count), fiber.Map{"count": count})
}
