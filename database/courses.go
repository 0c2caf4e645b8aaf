package database

import (
	"context"
	"fmt"
	"sort"

	"github.com/sahilchouksey/college-hub/model"
	"gorm.io/gorm"
)

// ListCourses returns courses ordered by class level, then name.
func (s *GORMStore) ListCourses(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	if err := s.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	sort.SliceStable(courses, func(i, j int) bool {
		return model.YearRank(courses[i].Year) < model.YearRank(courses[j].Year)
	})
	return courses, nil
}

func (s *GORMStore) GetCourse(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	if err := s.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &course, nil
}

func (s *GORMStore) AddCourse(ctx context.Context, course *model.Course) error {
	if err := s.db.WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("failed to add course: %w", err)
	}
	return nil
}

func (s *GORMStore) DeleteCourse(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.Course{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete course: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ImportCourses inserts all courses in one transaction and returns how
// many were stored.
func (s *GORMStore) ImportCourses(ctx context.Context, courses []model.Course) (int, error) {
	if len(courses) == 0 {
		return 0, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(courses, 100).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to import courses: %w", err)
	}
	return len(courses), nil
}
