package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sahilchouksey/college-hub/model"
	"github.com/sahilchouksey/college-hub/services/ollama"
	"github.com/sahilchouksey/college-hub/utils"
	"github.com/sahilchouksey/college-hub/utils/logger"
)

// ErrModelUnavailable means the liveness probe failed before an operation
// that needs the model.
var ErrModelUnavailable = errors.New("model service is not available")

// MaxInsightsLength caps the interview insights passed to recommendations.
const MaxInsightsLength = 3000

// ChatModel is the model-service surface used by the counselor.
type ChatModel interface {
	Ping(ctx context.Context) bool
	Chat(ctx context.Context, messages []ollama.Message) (string, error)
	StreamChat(ctx context.Context, messages []ollama.Message) <-chan ollama.StreamChunk
}

const counselorPersona = `You are Sage, a warm, knowledgeable college counselor helping a high school student explore their college options. Your approach:

- Ask ONE thoughtful question at a time, then wait for the student's response
- Build on previous answers to dig deeper into interests and goals
- Reference specific things the student has shared (grades, activities, preferences)
- Be encouraging but honest about competitiveness
- Share specific knowledge about colleges, programs, and admissions
- Help the student discover what matters most to them
- Keep responses conversational and not too long (2-4 paragraphs max)

You have access to the student's academic profile and should reference it naturally.`

const recommendationPrompt = `You are a college admissions expert. Based on the student profile below, generate a list of 12-15 college recommendations divided into three tiers:

- **Reach** (4-5 schools): Highly competitive for this student but possible
- **Match** (4-5 schools): Good alignment with student's academic profile
- **Safety** (3-5 schools): Strong likelihood of admission

For each school, provide:
- name: Full college name
- tier: "reach", "match", or "safety"
- reasoning: 1-2 sentences explaining why this school fits
- fit_score: 1-100 score for overall fit
- location: City, State
- size: "Small", "Medium", or "Large"

IMPORTANT: Respond with ONLY valid JSON, an array of objects. No markdown, no explanation outside the JSON.`

const defaultFitScore = 50

// Counselor builds prompts for the model service and interprets replies.
type Counselor struct {
	model ChatModel
	log   *logger.Logger
}

func NewCounselor(m ChatModel, log *logger.Logger) *Counselor {
	return &Counselor{model: m, log: log}
}

// Available reports whether the model service answers its liveness probe.
func (c *Counselor) Available(ctx context.Context) bool {
	return c.model.Ping(ctx)
}

// StreamChat streams the counselor's reply to history. System-role
// entries in history are not forwarded.
func (c *Counselor) StreamChat(ctx context.Context, profile *model.Profile, courses []model.Course, gpa model.GPA, history []model.Message) <-chan ollama.StreamChunk {
	return c.model.StreamChat(ctx, ChatMessages(profile, courses, gpa, history))
}

// ChatMessages assembles the system instruction and the user/assistant turns.
func ChatMessages(profile *model.Profile, courses []model.Course, gpa model.GPA, history []model.Message) []ollama.Message {
	messages := make([]ollama.Message, 0, len(history)+1)
	messages = append(messages, ollama.Message{
		Role:    string(model.MessageRoleSystem),
		Content: counselorPersona + "\n\n" + BuildStudentContext(profile, courses, gpa),
	})
	for _, m := range history {
		if m.Role == model.MessageRoleUser || m.Role == model.MessageRoleAssistant {
			messages = append(messages, ollama.Message{Role: string(m.Role), Content: m.Content})
		}
	}
	return messages
}

// GenerateCollegeMatches asks for tiered recommendations and returns the
// entries that survive normalization. Tier sizes are requested from the
// model but not enforced.
func (c *Counselor) GenerateCollegeMatches(ctx context.Context, profile *model.Profile, courses []model.Course, gpa model.GPA, insights string) ([]model.CollegeMatch, error) {
	prompt := BuildStudentContext(profile, courses, gpa)
	if insights = truncateRunes(insights, MaxInsightsLength); insights != "" {
		prompt += "\n\n## Insights from Counselor Interview\n" + insights
	}

	reply, err := c.model.Chat(ctx, []ollama.Message{
		{Role: string(model.MessageRoleSystem), Content: recommendationPrompt},
		{Role: string(model.MessageRoleUser), Content: prompt + "\n\nGenerate college recommendations as JSON:"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate recommendations: %w", err)
	}

	items, err := decodeJSONArray(reply)
	if err != nil {
		c.log.Warn("unparseable recommendation reply", "length", len(reply), "error", err)
		return nil, fmt.Errorf("failed to parse recommendations: %w", err)
	}

	matches := NormalizeRecommendations(items)
	c.log.Info("generated college matches", "returned", len(items), "kept", len(matches))
	return matches, nil
}

// NormalizeRecommendations keeps entries with a non-empty name and a tier
// key. Unknown tiers become "match", fit scores default to 50 and other
// fields default to "".
func NormalizeRecommendations(items []interface{}) []model.CollegeMatch {
	matches := make([]model.CollegeMatch, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		name := strings.TrimSpace(stringify(m["name"]))
		if _, hasTier := m["tier"]; !hasTier || name == "" {
			continue
		}

		tier := strings.ToLower(strings.TrimSpace(stringify(m["tier"])))
		if !model.IsValidTier(tier) {
			tier = model.TierMatch
		}

		score := defaultFitScore
		if v, ok := toFloat(m["fit_score"]); ok {
			score = int(math.Round(v))
		}

		matches = append(matches, model.CollegeMatch{
			Name:      name,
			Tier:      tier,
			Reasoning: stringify(m["reasoning"]),
			FitScore:  score,
			Location:  stringify(m["location"]),
			Size:      stringify(m["size"]),
			Notes:     stringify(m["notes"]),
		})
	}
	return matches
}

func decodeJSONArray(reply string) ([]interface{}, error) {
	text, err := utils.ExtractJSONArray(reply)
	if err != nil {
		return nil, err
	}
	var items []interface{}
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// stringify renders a decoded JSON scalar; null and missing become "".
func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// toFloat accepts JSON numbers and numeric strings.
func toFloat(v interface{}) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
