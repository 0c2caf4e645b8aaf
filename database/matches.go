package database

import (
	"context"
	"fmt"

	"github.com/sahilchouksey/college-hub/model"
	"gorm.io/gorm"
)

// ListCollegeMatches returns matches grouped by tier, best fit first.
func (s *GORMStore) ListCollegeMatches(ctx context.Context) ([]model.CollegeMatch, error) {
	var matches []model.CollegeMatch
	err := s.db.WithContext(ctx).Order("tier ASC").Order("fit_score DESC").Order("id ASC").Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list college matches: %w", err)
	}
	return matches, nil
}

// ReplaceCollegeMatches swaps the whole match set atomically.
func (s *GORMStore) ReplaceCollegeMatches(ctx context.Context, matches []model.CollegeMatch) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.CollegeMatch{}).Error; err != nil {
			return err
		}
		if len(matches) == 0 {
			return nil
		}
		return tx.CreateInBatches(matches, 100).Error
	})
	if err != nil {
		return fmt.Errorf("failed to replace college matches: %w", err)
	}
	return nil
}

func (s *GORMStore) ClearCollegeMatches(ctx context.Context) error {
	err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.CollegeMatch{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear college matches: %w", err)
	}
	return nil
}
