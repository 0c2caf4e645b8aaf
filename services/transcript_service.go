package services

import (
	"context"
	"strings"

	"github.com/sahilchouksey/college-hub/utils/logger"
)

// TranscriptService runs the upload pipeline: extract text, then parse it
// into course records for review.
type TranscriptService struct {
	counselor *Counselor
	parser    *TranscriptParser
	extract   func(path, filename string) (string, error)
	log       *logger.Logger
}

func NewTranscriptService(counselor *Counselor, parser *TranscriptParser, log *logger.Logger) *TranscriptService {
	return &TranscriptService{counselor: counselor, parser: parser, extract: ExtractText, log: log}
}

// CheckAvailable reports ErrModelUnavailable when the model is down, so
// callers can refuse an upload before saving it.
func (s *TranscriptService) CheckAvailable(ctx context.Context) error {
	if !s.counselor.Available(ctx) {
		return ErrModelUnavailable
	}
	return nil
}

// Process extracts and parses the document at path. filename is the
// original upload name and selects the extractor.
func (s *TranscriptService) Process(ctx context.Context, path, filename string) ([]CourseRecord, error) {
	text, err := s.extract(path, filename)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoTextExtracted
	}
	s.log.Debug("extracted transcript text", "filename", filename, "chars", len(text))

	records, err := s.parser.Parse(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoCoursesFound
	}
	return records, nil
}
