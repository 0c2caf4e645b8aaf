package database

import (
	"context"
	"errors"
	"testing"

	"github.com/sahilchouksey/college-hub/model"
)

func TestInit_CreatesSingleProfile(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	// A second Init must not add a row or fail.
	if err := store.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}

	var count int64
	store.GetDB().Model(&model.Profile{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly 1 profile row, got %d", count)
	}

	profile, err := store.GetProfile(ctx)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if profile.ID != model.ProfileID || profile.Name != "" || profile.GradYear != nil {
		t.Errorf("expected empty profile, got %+v", profile)
	}

	if err := store.GetDB().Create(&model.Profile{ID: 2}).Error; err == nil {
		t.Error("expected second profile row to be rejected")
	}
}

func TestUpdateProfile(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	name := "Ada"
	if err := store.UpdateProfile(ctx, model.ProfilePatch{Name: &name, SATScore: model.Some(1500), GradYear: model.Some(2027)}); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	// Clearing one optional leaves the other fields alone.
	if err := store.UpdateProfile(ctx, model.ProfilePatch{SATScore: model.Null[int]()}); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	profile, err := store.GetProfile(ctx)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if profile.Name != "Ada" {
		t.Errorf("name = %q", profile.Name)
	}
	if profile.SATScore != nil {
		t.Errorf("sat_score = %v, want nil", *profile.SATScore)
	}
	if profile.GradYear == nil || *profile.GradYear != 2027 {
		t.Errorf("grad_year = %v", profile.GradYear)
	}

	if err := store.UpdateProfile(ctx, model.ProfilePatch{}); err != nil {
		t.Errorf("empty patch should be a no-op, got %v", err)
	}
}

func TestCourses(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	n, err := store.ImportCourses(ctx, []model.Course{
		{Name: "Physics", Grade: "A", Year: "Senior", CourseType: "Regular", Credits: 1},
		{Name: "Algebra", Grade: "B", Year: "Freshman", CourseType: "Regular", Credits: 1},
		{Name: "AP Biology", Grade: "A-", Year: "Sophomore", CourseType: "AP", Credits: 1},
		{Name: "Art", Grade: "A", Year: "Freshman", CourseType: "Regular", Credits: 0.5},
	})
	if err != nil || n != 4 {
		t.Fatalf("ImportCourses = %d, %v", n, err)
	}

	courses, err := store.ListCourses(ctx)
	if err != nil {
		t.Fatalf("ListCourses failed: %v", err)
	}
	want := []string{"Algebra", "Art", "AP Biology", "Physics"}
	if len(courses) != len(want) {
		t.Fatalf("expected %d courses, got %d", len(want), len(courses))
	}
	for i, c := range courses {
		if c.Name != want[i] {
			t.Errorf("course[%d] = %q, want %q", i, c.Name, want[i])
		}
	}

	if err := store.DeleteCourse(ctx, courses[0].ID); err != nil {
		t.Fatalf("DeleteCourse failed: %v", err)
	}
	if _, err := store.GetCourse(ctx, courses[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteCourse(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing course, got %v", err)
	}

	if n, err := store.ImportCourses(ctx, nil); n != 0 || err != nil {
		t.Errorf("empty import = %d, %v", n, err)
	}
}

func TestConversations(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	first, err := store.CreateConversation(ctx, "")
	if err != nil {
		t.Fatalf("CreateConversation failed: %v", err)
	}
	if first.Title != model.DefaultConversationTitle {
		t.Errorf("title = %q, want default", first.Title)
	}
	second, err := store.CreateConversation(ctx, "Essays")
	if err != nil {
		t.Fatalf("CreateConversation failed: %v", err)
	}

	for _, m := range []struct {
		role    model.MessageRole
		content string
	}{
		{model.MessageRoleUser, "Hi"},
		{model.MessageRoleAssistant, "Hello! What are you interested in?"},
		{model.MessageRoleUser, "Biology"},
	} {
		if _, err := store.AddMessage(ctx, first.ID, m.role, m.content); err != nil {
			t.Fatalf("AddMessage failed: %v", err)
		}
	}

	messages, err := store.ListMessages(ctx, first.ID)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(messages) != 3 || messages[0].Content != "Hi" || messages[2].Content != "Biology" {
		t.Fatalf("unexpected messages %+v", messages)
	}
	if count, _ := store.CountMessages(ctx, first.ID); count != 3 {
		t.Errorf("CountMessages = %d", count)
	}

	// Adding a message bumps the conversation to the top.
	conversations, err := store.ListConversations(ctx)
	if err != nil {
		t.Fatalf("ListConversations failed: %v", err)
	}
	if len(conversations) != 2 || conversations[0].ID != first.ID {
		t.Errorf("expected conversation %d first, got %+v", first.ID, conversations)
	}

	if _, err := store.AddMessage(ctx, 9999, model.MessageRoleUser, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing conversation, got %v", err)
	}

	if err := store.UpdateConversationTitle(ctx, second.ID, "Renamed"); err != nil {
		t.Fatalf("UpdateConversationTitle failed: %v", err)
	}
	got, _ := store.GetConversation(ctx, second.ID)
	if got.Title != "Renamed" {
		t.Errorf("title = %q", got.Title)
	}

	if err := store.DeleteConversation(ctx, first.ID); err != nil {
		t.Fatalf("DeleteConversation failed: %v", err)
	}
	var orphans int64
	store.GetDB().Model(&model.Message{}).Where("conversation_id = ?", first.ID).Count(&orphans)
	if orphans != 0 {
		t.Errorf("expected messages to be deleted with conversation, %d remain", orphans)
	}
	if _, err := store.GetConversation(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.DeleteConversation(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestForeignKeyCascade(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	conv, _ := store.CreateConversation(ctx, "x")
	if _, err := store.AddMessage(ctx, conv.ID, model.MessageRoleUser, "hello"); err != nil {
		t.Fatalf("AddMessage failed: %v", err)
	}

	// Bypass DeleteConversation to exercise the schema-level cascade.
	if err := store.GetDB().Delete(&model.Conversation{}, conv.ID).Error; err != nil {
		t.Fatalf("raw delete failed: %v", err)
	}
	var remaining int64
	store.GetDB().Model(&model.Message{}).Count(&remaining)
	if remaining != 0 {
		t.Errorf("expected cascade to remove messages, %d remain", remaining)
	}
}

func TestCollegeMatches(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if err := store.ReplaceCollegeMatches(ctx, []model.CollegeMatch{
		{Name: "Old U", Tier: "match", FitScore: 10},
	}); err != nil {
		t.Fatalf("ReplaceCollegeMatches failed: %v", err)
	}

	err := store.ReplaceCollegeMatches(ctx, []model.CollegeMatch{
		{Name: "Safe State", Tier: "safety", FitScore: 90},
		{Name: "Dream Tech", Tier: "reach", FitScore: 70},
		{Name: "Solid College", Tier: "match", FitScore: 60},
		{Name: "Better Fit College", Tier: "match", FitScore: 85},
	})
	if err != nil {
		t.Fatalf("ReplaceCollegeMatches failed: %v", err)
	}

	matches, err := store.ListCollegeMatches(ctx)
	if err != nil {
		t.Fatalf("ListCollegeMatches failed: %v", err)
	}
	want := []string{"Better Fit College", "Solid College", "Dream Tech", "Safe State"}
	if len(matches) != len(want) {
		t.Fatalf("expected %d matches, got %d", len(want), len(matches))
	}
	for i, m := range matches {
		if m.Name != want[i] {
			t.Errorf("match[%d] = %q, want %q", i, m.Name, want[i])
		}
	}

	if err := store.GetDB().Create(&model.CollegeMatch{Name: "Bad", Tier: "ivy"}).Error; err == nil {
		t.Error("expected invalid tier to violate the check constraint")
	}

	if err := store.ClearCollegeMatches(ctx); err != nil {
		t.Fatalf("ClearCollegeMatches failed: %v", err)
	}
	matches, _ = store.ListCollegeMatches(ctx)
	if len(matches) != 0 {
		t.Errorf("expected no matches after clear, got %d", len(matches))
	}
}

func TestApplications(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	late := "2026-12-01"
	early := "2026-11-01"
	empty := ""
	a, err := store.AddApplication(ctx, "Zeta College", &late, "")
	if err != nil {
		t.Fatalf("AddApplication failed: %v", err)
	}
	if a.Status != model.DefaultApplicationStatus || a.AppType != model.DefaultAppType || a.EssayStatus != model.DefaultEssayStatus {
		t.Errorf("defaults not applied: %+v", a)
	}
	if _, err := store.AddApplication(ctx, "Alpha University", nil, "Early Action"); err != nil {
		t.Fatal(err)
	}
	b, err := store.AddApplication(ctx, "Beta Institute", &early, "Early Decision")
	if err != nil {
		t.Fatal(err)
	}
	c, err := store.AddApplication(ctx, "Gamma College", &empty, "")
	if err != nil {
		t.Fatal(err)
	}
	if c.Deadline != nil {
		t.Errorf("blank deadline should be stored as NULL, got %q", *c.Deadline)
	}

	apps, err := store.ListApplications(ctx)
	if err != nil {
		t.Fatalf("ListApplications failed: %v", err)
	}
	want := []string{"Beta Institute", "Zeta College", "Alpha University", "Gamma College"}
	for i, app := range apps {
		if app.CollegeName != want[i] {
			t.Errorf("app[%d] = %q, want %q", i, app.CollegeName, want[i])
		}
	}

	sent := true
	lor := 2
	status := "Submitted"
	err = store.UpdateApplication(ctx, b.ID, model.ApplicationPatch{
		Status:         &status,
		LORCount:       &lor,
		TranscriptSent: &sent,
		Deadline:       model.Null[string](),
	})
	if err != nil {
		t.Fatalf("UpdateApplication failed: %v", err)
	}
	updated, _ := store.GetApplication(ctx, b.ID)
	if updated.Status != "Submitted" || updated.LORCount != 2 || !updated.TranscriptSent || updated.TestScoresSent || updated.Deadline != nil {
		t.Errorf("unexpected application after update: %+v", updated)
	}

	if err := store.UpdateApplication(ctx, 9999, model.ApplicationPatch{Status: &status}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.UpdateApplication(ctx, 9999, model.ApplicationPatch{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for empty patch on missing row, got %v", err)
	}

	if err := store.DeleteApplication(ctx, a.ID); err != nil {
		t.Fatalf("DeleteApplication failed: %v", err)
	}
	if err := store.DeleteApplication(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDashboardStats(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	stats, err := store.DashboardStats(ctx)
	if err != nil {
		t.Fatalf("DashboardStats failed: %v", err)
	}
	if stats.ProfilePercent != 0 || stats.CourseCount != 0 || stats.GPA != (model.GPA{}) || len(stats.UpcomingDeadlines) != 0 {
		t.Errorf("unexpected empty stats: %+v", stats)
	}

	if err := NewSeeder(store).SeedAll(ctx); err != nil {
		t.Fatalf("SeedAll failed: %v", err)
	}
	for _, d := range []string{"2027-01-01", "2026-10-20", "2026-12-15", "2027-02-01"} {
		deadline := d
		if _, err := store.AddApplication(ctx, "College "+d, &deadline, ""); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := store.AddApplication(ctx, "Undated", nil, ""); err != nil {
		t.Fatal(err)
	}
	if err := store.ReplaceCollegeMatches(ctx, []model.CollegeMatch{
		{Name: "A", Tier: "reach"}, {Name: "B", Tier: "match"}, {Name: "C", Tier: "match"}, {Name: "D", Tier: "safety"},
	}); err != nil {
		t.Fatal(err)
	}

	stats, err = store.DashboardStats(ctx)
	if err != nil {
		t.Fatalf("DashboardStats failed: %v", err)
	}

	courses, _ := store.ListCourses(ctx)
	if stats.CourseCount != len(courses) || stats.GPA != model.CalculateGPA(courses) {
		t.Errorf("course stats mismatch: %+v", stats)
	}
	// The seeded profile fills all 8 tracked fields.
	if stats.ProfilePercent != 100 {
		t.Errorf("profile_pct = %d, want 100", stats.ProfilePercent)
	}
	if stats.SATScore == nil || *stats.SATScore != 1420 || stats.ACTScore != nil {
		t.Errorf("unexpected test scores sat=%v act=%v", stats.SATScore, stats.ACTScore)
	}
	if stats.MatchCount != 4 || stats.ReachCount != 1 || stats.MatchTierCount != 2 || stats.SafetyCount != 1 {
		t.Errorf("unexpected match counts: %+v", stats)
	}
	if stats.ApplicationCount != 6 {
		t.Errorf("app_count = %d, want 6", stats.ApplicationCount)
	}

	wantDeadlines := []string{"2026-10-20", "2026-11-01", "2026-12-15"}
	if len(stats.UpcomingDeadlines) != len(wantDeadlines) {
		t.Fatalf("expected %d upcoming deadlines, got %d", len(wantDeadlines), len(stats.UpcomingDeadlines))
	}
	for i, app := range stats.UpcomingDeadlines {
		if *app.Deadline != wantDeadlines[i] {
			t.Errorf("deadline[%d] = %s, want %s", i, *app.Deadline, wantDeadlines[i])
		}
	}
}

func TestSeedAll_Idempotent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	seeder := NewSeeder(store)
	if err := seeder.SeedAll(ctx); err != nil {
		t.Fatal(err)
	}
	if err := seeder.SeedAll(ctx); err != nil {
		t.Fatal(err)
	}

	courses, _ := store.ListCourses(ctx)
	if len(courses) != 6 {
		t.Errorf("expected 6 seeded courses, got %d", len(courses))
	}
}
