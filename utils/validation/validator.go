package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sahilchouksey/college-hub/model"
)

// Validator wraps the go-playground validator with the domain tags
// "grade", "class_year", "course_type" and "tier".
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("grade", func(fl validator.FieldLevel) bool {
		return model.IsValidGrade(fl.Field().String())
	})
	_ = v.RegisterValidation("class_year", func(fl validator.FieldLevel) bool {
		y, ok := model.CanonicalYear(fl.Field().String())
		return ok && y == fl.Field().String()
	})
	_ = v.RegisterValidation("course_type", func(fl validator.FieldLevel) bool {
		t, ok := model.CanonicalCourseType(fl.Field().String())
		return ok && t == fl.Field().String()
	})
	_ = v.RegisterValidation("tier", func(fl validator.FieldLevel) bool {
		return model.IsValidTier(fl.Field().String())
	})
	return &Validator{validate: v}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationErrors converts validation errors to a user-friendly format
func FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			field := strings.ToLower(e.Field())
			switch e.Tag() {
			case "required":
				errors[field] = fmt.Sprintf("%s is required", e.Field())
			case "max":
				errors[field] = fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
			case "gt":
				errors[field] = fmt.Sprintf("%s must be greater than %s", e.Field(), e.Param())
			case "gte":
				errors[field] = fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param())
			case "lte":
				errors[field] = fmt.Sprintf("%s must be less than or equal to %s", e.Field(), e.Param())
			case "grade":
				errors[field] = fmt.Sprintf("%s must be one of %s", e.Field(), strings.Join(model.Grades, ", "))
			case "class_year":
				errors[field] = fmt.Sprintf("%s must be one of %s", e.Field(), strings.Join(model.Years, ", "))
			case "course_type":
				errors[field] = fmt.Sprintf("%s must be one of %s", e.Field(), strings.Join(model.CourseTypes, ", "))
			case "tier":
				errors[field] = fmt.Sprintf("%s must be one of %s", e.Field(), strings.Join(model.Tiers, ", "))
			default:
				errors[field] = fmt.Sprintf("%s is invalid", e.Field())
			}
		}
	}

	return errors
}

// SanitizeString removes null bytes and surrounding whitespace
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.TrimSpace(s)
}
