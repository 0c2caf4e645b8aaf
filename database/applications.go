package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sahilchouksey/college-hub/model"
)

// ListApplications orders by deadline (undated last), then college name.
func (s *GORMStore) ListApplications(ctx context.Context) ([]model.Application, error) {
	var apps []model.Application
	if err := s.db.WithContext(ctx).Order("college_name ASC").Order("id ASC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	sort.SliceStable(apps, func(i, j int) bool {
		di, dj := apps[i].Deadline, apps[j].Deadline
		switch {
		case di == nil || dj == nil:
			return di != nil && dj == nil
		default:
			return *di < *dj
		}
	})
	return apps, nil
}

func (s *GORMStore) GetApplication(ctx context.Context, id uint) (*model.Application, error) {
	var app model.Application
	if err := s.db.WithContext(ctx).First(&app, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &app, nil
}

// AddApplication creates a tracker row with default status fields. An
// empty appType means regular decision; an empty deadline is stored as NULL.
func (s *GORMStore) AddApplication(ctx context.Context, collegeName string, deadline *string, appType string) (*model.Application, error) {
	if strings.TrimSpace(appType) == "" {
		appType = model.DefaultAppType
	}
	if deadline != nil && strings.TrimSpace(*deadline) == "" {
		deadline = nil
	}

	app := &model.Application{
		CollegeName: collegeName,
		Status:      model.DefaultApplicationStatus,
		Deadline:    deadline,
		AppType:     appType,
		EssayStatus: model.DefaultEssayStatus,
	}
	if err := s.db.WithContext(ctx).Create(app).Error; err != nil {
		return nil, fmt.Errorf("failed to add application: %w", err)
	}
	return app, nil
}

func (s *GORMStore) UpdateApplication(ctx context.Context, id uint, patch model.ApplicationPatch) error {
	cols := patch.Columns()
	if len(cols) == 0 {
		if _, err := s.GetApplication(ctx, id); err != nil {
			return err
		}
		return nil
	}
	cols["updated_at"] = time.Now().UTC()

	result := s.db.WithContext(ctx).Model(&model.Application{}).Where("id = ?", id).Updates(cols)
	if result.Error != nil {
		return fmt.Errorf("failed to update application: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GORMStore) DeleteApplication(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.Application{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete application: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
