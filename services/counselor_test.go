package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sahilchouksey/college-hub/model"
	"github.com/sahilchouksey/college-hub/utils/logger"
)

func TestChatMessages_DropsSystemHistory(t *testing.T) {
	history := []model.Message{
		{Role: model.MessageRoleSystem, Content: "internal note"},
		{Role: model.MessageRoleUser, Content: "Hi"},
		{Role: model.MessageRoleAssistant, Content: "Hello!"},
		{Role: model.MessageRoleUser, Content: "Which schools?"},
	}

	msgs := ChatMessages(&model.Profile{Name: "Ada"}, nil, model.GPA{}, history)
	if len(msgs) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(msgs))
	}
	if msgs[0].Role != "system" || !strings.HasPrefix(msgs[0].Content, "You are Sage") {
		t.Errorf("unexpected system message %q", msgs[0].Content)
	}
	if !strings.Contains(msgs[0].Content, "\n\n## Student Profile\nName: Ada") {
		t.Errorf("system message missing student context: %q", msgs[0].Content)
	}
	for i, want := range []string{"Hi", "Hello!", "Which schools?"} {
		if msgs[i+1].Content != want {
			t.Errorf("msgs[%d] = %q, want %q", i+1, msgs[i+1].Content, want)
		}
	}
}

func TestNormalizeRecommendations(t *testing.T) {
	items := []interface{}{
		map[string]interface{}{"name": "Stanford University", "tier": "reach", "reasoning": "Top CS", "fit_score": 88.0, "location": "Stanford, CA", "size": "Large"},
		map[string]interface{}{"name": "Ivy College", "tier": "ivy", "fit_score": "72"},
		map[string]interface{}{"name": "Case Tier U", "tier": " Safety "},
		map[string]interface{}{"name": "No Tier U"},
		map[string]interface{}{"tier": "match"},
		map[string]interface{}{"name": "", "tier": "match"},
		map[string]interface{}{"name": "Bad Score U", "tier": "match", "fit_score": "high"},
		"not an object",
		nil,
	}

	got := NormalizeRecommendations(items)
	if len(got) != 4 {
		t.Fatalf("expected 4 matches, got %d: %+v", len(got), got)
	}

	if got[0].Name != "Stanford University" || got[0].Tier != "reach" || got[0].FitScore != 88 || got[0].Location != "Stanford, CA" || got[0].Size != "Large" {
		t.Errorf("unexpected first match %+v", got[0])
	}
	if got[1].Tier != "match" || got[1].FitScore != 72 || got[1].Reasoning != "" {
		t.Errorf("ivy tier should be coerced to match: %+v", got[1])
	}
	if got[2].Tier != "safety" || got[2].FitScore != 50 {
		t.Errorf("unexpected normalization %+v", got[2])
	}
	if got[3].FitScore != 50 {
		t.Errorf("unparseable fit_score should default to 50, got %d", got[3].FitScore)
	}
}

func TestGenerateCollegeMatches(t *testing.T) {
	fm := &fakeModel{
		available: true,
		reply: "```json\n[" +
			`{"name":"MIT","tier":"reach","reasoning":"Engineering","fit_score":91,"location":"Cambridge, MA","size":"Medium"},` +
			`{"name":"Purdue","tier":"match","fit_score":80},` +
			`{"name":"Dropped"}` +
			"]\n```",
	}
	c := NewCounselor(fm, logger.Nop())

	insights := strings.Repeat("x", MaxInsightsLength+100)
	matches, err := c.GenerateCollegeMatches(context.Background(), &model.Profile{Name: "Ada"}, nil, model.GPA{}, insights)
	if err != nil {
		t.Fatalf("GenerateCollegeMatches failed: %v", err)
	}
	if len(matches) != 2 || matches[0].Name != "MIT" || matches[1].Name != "Purdue" {
		t.Errorf("unexpected matches %+v", matches)
	}

	if len(fm.chats) != 1 {
		t.Fatalf("expected one chat call, got %d", len(fm.chats))
	}
	sent := fm.chats[0]
	if sent[0].Role != "system" || !strings.Contains(sent[0].Content, "12-15 college recommendations") {
		t.Errorf("unexpected system prompt %q", sent[0].Content)
	}
	user := sent[1].Content
	if !strings.HasSuffix(user, "\n\nGenerate college recommendations as JSON:") {
		t.Errorf("unexpected user prompt suffix: %q", user[len(user)-60:])
	}
	if !strings.Contains(user, "## Insights from Counselor Interview\n"+strings.Repeat("x", MaxInsightsLength)+"\n\n") {
		t.Error("insights should be truncated to the budget")
	}
}

func TestGenerateCollegeMatches_NoInsights(t *testing.T) {
	fm := &fakeModel{available: true, reply: "[]"}
	c := NewCounselor(fm, logger.Nop())

	matches, err := c.GenerateCollegeMatches(context.Background(), nil, nil, model.GPA{}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
	if strings.Contains(fm.chats[0][1].Content, "Insights") {
		t.Error("empty insights must not add a section")
	}
}

func TestGenerateCollegeMatches_Errors(t *testing.T) {
	tests := []struct {
		name  string
		model *fakeModel
	}{
		{"model error", &fakeModel{chatErr: errors.New("connection reset")}},
		{"no array", &fakeModel{reply: "I cannot help with that."}},
		{"malformed json", &fakeModel{reply: `[{"name": "MIT",]`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCounselor(tt.model, logger.Nop())
			if _, err := c.GenerateCollegeMatches(context.Background(), nil, nil, model.GPA{}, ""); err == nil {
				t.Error("expected error")
			}
		})
	}
}
