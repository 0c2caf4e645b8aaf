package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sahilchouksey/college-hub/model"
	"github.com/sahilchouksey/college-hub/services/ollama"
	"github.com/sahilchouksey/college-hub/utils/logger"
)

// ErrNoCoursesFound means a transcript parsed cleanly but held no courses.
var ErrNoCoursesFound = errors.New("no courses found in transcript")

const transcriptPrompt = `You are a transcript parser. Extract every course from the transcript text below into a JSON array.

Each course object must have these fields:
- "name": course name (string)
- "grade": letter grade normalized to one of: A+, A, A-, B+, B, B-, C+, C, C-, D+, D, D-, F
- "year": one of "Freshman", "Sophomore", "Junior", "Senior" (infer from grade level, year labels, or 9th/10th/11th/12th)
- "course_type": one of "Regular", "Honors", "AP", "IB", "Dual Enrollment" (infer from course name or labels)
- "credits": number of credits (default 1.0 if not listed)

Rules:
- Convert percentage grades to letter grades (90-100=A, 80-89=B, etc.)
- If a course name contains "AP " or "Advanced Placement", set course_type to "AP"
- If a course name contains "IB " or "International Baccalaureate", set course_type to "IB"
- If a course name contains "Honors" or "Hon ", set course_type to "Honors"
- If a course name contains "Dual Enrollment" or "DE " or "College ", set course_type to "Dual Enrollment"
- Otherwise set course_type to "Regular"
- If year/grade level is unclear, use "Junior" as default

Respond with ONLY a valid JSON array. No markdown, no explanation.`

// CourseRecord is a validated course awaiting review or import.
type CourseRecord struct {
	Name       string  `json:"name"`
	Grade      string  `json:"grade"`
	Year       string  `json:"year"`
	CourseType string  `json:"course_type"`
	Credits    float64 `json:"credits"`
}

func (r CourseRecord) Course() model.Course {
	return model.Course{
		Name:       r.Name,
		Grade:      r.Grade,
		Year:       r.Year,
		CourseType: r.CourseType,
		Credits:    r.Credits,
	}
}

// TranscriptParser turns transcript text into course records via the model.
type TranscriptParser struct {
	model ChatModel
	log   *logger.Logger
}

func NewTranscriptParser(m ChatModel, log *logger.Logger) *TranscriptParser {
	return &TranscriptParser{model: m, log: log}
}

// Parse sends raw transcript text to the model and validates the reply.
// Malformed JSON is returned as an error; individual bad records are
// repaired or dropped by NormalizeCourseRecords.
func (p *TranscriptParser) Parse(ctx context.Context, raw string) ([]CourseRecord, error) {
	reply, err := p.model.Chat(ctx, []ollama.Message{
		{Role: string(model.MessageRoleSystem), Content: transcriptPrompt},
		{Role: string(model.MessageRoleUser), Content: "Transcript text:\n\n" + raw},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse transcript: %w", err)
	}

	items, err := decodeJSONArray(reply)
	if err != nil {
		p.log.Warn("unparseable transcript reply", "length", len(reply), "error", err)
		return nil, fmt.Errorf("failed to parse transcript reply: %w", err)
	}

	records := NormalizeCourseRecords(items)
	p.log.Info("parsed transcript", "returned", len(items), "kept", len(records))
	return records, nil
}

// NormalizeCourseRecords validates untrusted course objects. Elements that
// are not objects or have no usable name are dropped. Invalid grades
// become "B", years "Junior", course types "Regular" and credits 1.0.
// Running it on its own output returns the same records.
func NormalizeCourseRecords(items []interface{}) []CourseRecord {
	records := make([]CourseRecord, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		name := strings.TrimSpace(stringify(m["name"]))
		if name == "" {
			continue
		}

		grade := strings.ToUpper(strings.TrimSpace(stringify(m["grade"])))
		if !model.IsValidGrade(grade) {
			grade = model.DefaultGrade
		}
		records = append(records, CourseRecord{
			Name:       name,
			Grade:      grade,
			Year:       normalizeYear(m["year"]),
			CourseType: normalizeCourseType(m["course_type"]),
			Credits:    normalizeCredits(m["credits"]),
		})
	}
	return records
}

// NormalizeImportRecords prepares reviewed records for bulk import. Only
// records with a name and a valid grade are kept; other fields are
// defaulted the same way as NormalizeCourseRecords.
func NormalizeImportRecords(items []map[string]interface{}) []model.Course {
	courses := make([]model.Course, 0, len(items))
	for _, m := range items {
		name := strings.TrimSpace(stringify(m["name"]))
		grade := strings.ToUpper(strings.TrimSpace(stringify(m["grade"])))
		if name == "" || !model.IsValidGrade(grade) {
			continue
		}
		courses = append(courses, model.Course{
			Name:       name,
			Grade:      grade,
			Year:       normalizeYear(m["year"]),
			CourseType: normalizeCourseType(m["course_type"]),
			Credits:    normalizeCredits(m["credits"]),
		})
	}
	return courses
}

func normalizeYear(v interface{}) string {
	if y, ok := model.CanonicalYear(stringify(v)); ok {
		return y
	}
	return model.DefaultYear
}

func normalizeCourseType(v interface{}) string {
	if t, ok := model.CanonicalCourseType(stringify(v)); ok {
		return t
	}
	return model.DefaultCourseType
}

func normalizeCredits(v interface{}) float64 {
	if f, ok := toFloat(v); ok && f > 0 {
		return f
	}
	return model.DefaultCredits
}
