package intent

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// MockExtractor is a deterministic implementation of Extractor for tests and
// for running the console without an API key. It resolves a small set of
// relative date words against the reference date and picks up an HH:MM time
// and a capitalized name from the text.
type MockExtractor struct {
	// Responses maps exact input text to a fixed candidate.
	Responses map[string]*Candidate
	// Err, when set, is returned by every call.
	Err error
}

// NewMockExtractor creates a new MockExtractor.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{}
}

var (
	timePattern = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	datePattern = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	namePattern = regexp.MustCompile(`\bfor ([A-Z][a-zA-Z]+)\b`)
)

// Extract returns the fixed response for the input if one is registered,
// otherwise falls back to rule-based extraction.
func (m *MockExtractor) Extract(_ context.Context, text string, referenceDate time.Time) (*Candidate, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if candidate, ok := m.Responses[text]; ok {
		return candidate, nil
	}

	candidate := &Candidate{}

	if match := namePattern.FindStringSubmatch(text); len(match) > 1 {
		candidate.Name = match[1]
	}

	if match := datePattern.FindString(text); match != "" {
		candidate.Date = match
	} else if strings.Contains(strings.ToLower(text), "tomorrow") {
		candidate.Date = referenceDate.AddDate(0, 0, 1).Format("2006-01-02")
	} else if strings.Contains(strings.ToLower(text), "today") {
		candidate.Date = referenceDate.Format("2006-01-02")
	}

	if match := timePattern.FindString(text); match != "" {
		if len(match) == 4 {
			match = "0" + match
		}
		candidate.Time = match
	}

	if candidate.Name == "" || candidate.Date == "" || candidate.Time == "" {
		return nil, errors.Wrap(ErrExtractionFailed, "mock could not extract a full candidate")
	}
	return candidate, nil
}

// Ensure MockExtractor implements Extractor
var _ Extractor = (*MockExtractor)(nil)
