package database

import (
	"context"

	"github.com/sahilchouksey/college-hub/model"
)

const upcomingDeadlineCount = 3

// DashboardStats is recomputed on every read and never stored.
type DashboardStats struct {
	GPA               model.GPA           `json:"gpa"`
	SATScore          *int                `json:"sat_score"`
	ACTScore          *int                `json:"act_score"`
	CourseCount       int                 `json:"course_count"`
	ProfilePercent    int                 `json:"profile_pct"`
	MatchCount        int                 `json:"match_count"`
	ReachCount        int                 `json:"reach_count"`
	MatchTierCount    int                 `json:"match_tier_count"`
	SafetyCount       int                 `json:"safety_count"`
	ApplicationCount  int                 `json:"app_count"`
	UpcomingDeadlines []model.Application `json:"upcoming_deadlines"`
}

func (s *GORMStore) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	profile, err := s.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	courses, err := s.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	matches, err := s.ListCollegeMatches(ctx)
	if err != nil {
		return nil, err
	}
	apps, err := s.ListApplications(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		GPA:               model.CalculateGPA(courses),
		SATScore:          profile.SATScore,
		ACTScore:          profile.ACTScore,
		CourseCount:       len(courses),
		ProfilePercent:    completionPercent(profile),
		MatchCount:        len(matches),
		ApplicationCount:  len(apps),
		UpcomingDeadlines: []model.Application{},
	}

	for _, m := range matches {
		switch m.Tier {
		case model.TierReach:
			stats.ReachCount++
		case model.TierMatch:
			stats.MatchTierCount++
		case model.TierSafety:
			stats.SafetyCount++
		}
	}

	// ListApplications already sorts dated rows first by deadline.
	for _, a := range apps {
		if a.Deadline == nil || len(stats.UpcomingDeadlines) == upcomingDeadlineCount {
			break
		}
		stats.UpcomingDeadlines = append(stats.UpcomingDeadlines, a)
	}

	return stats, nil
}

func completionPercent(p *model.Profile) int {
	fields := p.CompletionFields()
	filled := 0
	for _, ok := range fields {
		if ok {
			filled++
		}
	}
	return filled * 100 / len(fields)
}
