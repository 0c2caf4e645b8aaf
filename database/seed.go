package database

import (
	"context"
	"fmt"

	"github.com/sahilchouksey/college-hub/model"
)

// Seeder fills an empty database with a sample student for demos.
type Seeder struct {
	store Storage
}

func NewSeeder(store Storage) *Seeder {
	return &Seeder{store: store}
}

// SeedAll seeds the profile, courses and one tracked application. It is
// a no-op when courses already exist.
func (s *Seeder) SeedAll(ctx context.Context) error {
	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return err
	}
	if len(courses) > 0 {
		return nil
	}

	if err := s.SeedProfile(ctx); err != nil {
		return fmt.Errorf("failed to seed profile: %w", err)
	}
	if err := s.SeedCourses(ctx); err != nil {
		return fmt.Errorf("failed to seed courses: %w", err)
	}
	if _, err := s.store.AddApplication(ctx, "University of Michigan", strPtr("2026-11-01"), "Early Action"); err != nil {
		return fmt.Errorf("failed to seed application: %w", err)
	}
	return nil
}

func (s *Seeder) SeedProfile(ctx context.Context) error {
	return s.store.UpdateProfile(ctx, model.ProfilePatch{
		Name:             strPtr("Jordan Rivera"),
		HighSchool:       strPtr("Lincoln High School"),
		GradYear:         model.Some(2027),
		SATScore:         model.Some(1420),
		MajorInterests:   strPtr("Computer Science, Mathematics"),
		Extracurriculars: strPtr("Robotics club captain, varsity tennis"),
		LocationPref:     strPtr("Midwest or Northeast"),
		SizePref:         strPtr("Medium"),
		Budget:           strPtr("Need financial aid"),
		ImportantFactors: strPtr("Strong CS program, research opportunities"),
	})
}

func (s *Seeder) SeedCourses(ctx context.Context) error {
	_, err := s.store.ImportCourses(ctx, []model.Course{
		{Name: "English 9", Grade: "A-", Year: "Freshman", CourseType: model.CourseTypeRegular, Credits: 1},
		{Name: "Honors Geometry", Grade: "A", Year: "Freshman", CourseType: model.CourseTypeHonors, Credits: 1},
		{Name: "Biology", Grade: "B+", Year: "Sophomore", CourseType: model.CourseTypeRegular, Credits: 1},
		{Name: "AP Computer Science A", Grade: "A", Year: "Sophomore", CourseType: model.CourseTypeAP, Credits: 1},
		{Name: "AP Calculus BC", Grade: "A-", Year: "Junior", CourseType: model.CourseTypeAP, Credits: 1},
		{Name: "Chemistry", Grade: "B", Year: "Junior", CourseType: model.CourseTypeRegular, Credits: 1},
	})
	return err
}

func strPtr(s string) *string {
	return &s
}
