package tracker

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sahilchouksey/college-hub/model"
)

const maxLORCount = 10

// ParseApplicationPatch decodes a partial application update. Flags
// accept true/false or 1/0, lor_count accepts a number or numeric
// string, and a null or blank deadline clears it.
func ParseApplicationPatch(body []byte) (model.ApplicationPatch, error) {
	var patch model.ApplicationPatch

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return patch, errors.New("invalid request body")
	}

	for key, raw := range fields {
		var err error
		switch key {
		case "college_name":
			patch.CollegeName, err = decodeText(raw, true)
		case "status":
			patch.Status, err = decodeText(raw, false)
		case "app_type":
			patch.AppType, err = decodeText(raw, false)
		case "essay_status":
			patch.EssayStatus, err = decodeText(raw, false)
		case "notes":
			patch.Notes, err = decodeText(raw, false)
		case "deadline":
			patch.Deadline, err = decodeDeadline(raw)
		case "lor_count":
			patch.LORCount, err = decodeCount(raw)
		case "transcript_sent":
			patch.TranscriptSent, err = decodeFlag(raw)
		case "test_scores_sent":
			patch.TestScoresSent, err = decodeFlag(raw)
		case "financial_aid":
			patch.FinancialAid, err = decodeFlag(raw)
		default:
			continue
		}
		if err != nil {
			return patch, fmt.Errorf("%s: %w", key, err)
		}
	}

	return patch, nil
}

func decodeText(raw json.RawMessage, required bool) (*string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errors.New("must be a string")
	}
	s = strings.TrimSpace(s)
	if required && s == "" {
		return nil, errors.New("must not be empty")
	}
	return &s, nil
}

func decodeDeadline(raw json.RawMessage) (model.Optional[string], error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return model.Null[string](), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return model.Optional[string]{}, errors.New("must be a date string")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Null[string](), nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return model.Optional[string]{}, errors.New("must be formatted YYYY-MM-DD")
	}
	return model.Some(s), nil
}

func decodeCount(raw json.RawMessage) (*int, error) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errors.New("must be a number")
	}

	var n int
	switch t := v.(type) {
	case float64:
		if t != float64(int(t)) {
			return nil, errors.New("must be a whole number")
		}
		n = int(t)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return nil, errors.New("must be a whole number")
		}
		n = parsed
	default:
		return nil, errors.New("must be a number")
	}

	if n < 0 || n > maxLORCount {
		return nil, fmt.Errorf("must be between 0 and %d", maxLORCount)
	}
	return &n, nil
}

func decodeFlag(raw json.RawMessage) (*bool, error) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errors.New("must be true or false")
	}

	var b bool
	switch t := v.(type) {
	case bool:
		b = t
	case float64:
		if t != 0 && t != 1 {
			return nil, errors.New("must be 0 or 1")
		}
		b = t == 1
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return nil, errors.New("must be true or false")
		}
		b = parsed
	default:
		return nil, errors.New("must be true or false")
	}
	return &b, nil
}
