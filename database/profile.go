package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sahilchouksey/college-hub/model"
)

func (s *GORMStore) GetProfile(ctx context.Context) (*model.Profile, error) {
	var profile model.Profile
	if err := s.db.WithContext(ctx).First(&profile, model.ProfileID).Error; err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", notFound(err))
	}
	return &profile, nil
}

// UpdateProfile applies the fields present in patch. Concurrent updates
// are last-write-wins per column.
func (s *GORMStore) UpdateProfile(ctx context.Context, patch model.ProfilePatch) error {
	cols := patch.Columns()
	if len(cols) == 0 {
		return nil
	}
	cols["updated_at"] = time.Now().UTC()

	result := s.db.WithContext(ctx).Model(&model.Profile{}).Where("id = ?", model.ProfileID).Updates(cols)
	if result.Error != nil {
		return fmt.Errorf("failed to update profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update profile: %w", ErrNotFound)
	}
	return nil
}
