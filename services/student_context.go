package services

import (
	"fmt"
	"strings"

	"github.com/sahilchouksey/college-hub/model"
)

// BuildStudentContext renders the profile, GPA and courses as the context
// block shared by every counselor prompt. Empty fields are left out.
func BuildStudentContext(profile *model.Profile, courses []model.Course, gpa model.GPA) string {
	if profile == nil {
		profile = &model.Profile{}
	}

	parts := []string{"## Student Profile"}
	if profile.Name != "" {
		parts = append(parts, "Name: "+profile.Name)
	}
	if profile.HighSchool != "" {
		parts = append(parts, "School: "+profile.HighSchool)
	}
	if present(profile.GradYear) {
		parts = append(parts, fmt.Sprintf("Graduation Year: %d", *profile.GradYear))
	}

	parts = append(parts, fmt.Sprintf("\nGPA: %.2f unweighted / %.2f weighted", gpa.Unweighted, gpa.Weighted))
	if present(profile.SATScore) {
		parts = append(parts, fmt.Sprintf("SAT: %d", *profile.SATScore))
	}
	if present(profile.ACTScore) {
		parts = append(parts, fmt.Sprintf("ACT: %d", *profile.ACTScore))
	}

	if len(courses) > 0 {
		parts = append(parts, fmt.Sprintf("\nCourses (%d total):", len(courses)))
		for _, c := range courses {
			parts = append(parts, fmt.Sprintf("  - %s (%s): %s [%s]", c.Name, c.CourseType, c.Grade, c.Year))
		}
	}

	if profile.MajorInterests != "" {
		parts = append(parts, "\nMajor Interests: "+profile.MajorInterests)
	}
	if profile.Extracurriculars != "" {
		parts = append(parts, "Extracurriculars: "+profile.Extracurriculars)
	}
	if profile.LocationPref != "" {
		parts = append(parts, "Location Preference: "+profile.LocationPref)
	}
	if profile.SizePref != "" {
		parts = append(parts, "Size Preference: "+profile.SizePref)
	}
	if profile.Budget != "" {
		parts = append(parts, "Budget: "+profile.Budget)
	}
	if profile.ImportantFactors != "" {
		parts = append(parts, "Important Factors: "+profile.ImportantFactors)
	}

	return strings.Join(parts, "\n")
}

func present(v *int) bool {
	return v != nil && *v != 0
}
