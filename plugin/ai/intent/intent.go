// Package intent turns free-form scheduling requests into structured
// candidates. The extractor is an external, fallible dependency: its output
// is untrusted and the scheduling service re-validates every field.
package intent

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ErrExtractionFailed is returned when the extractor cannot produce a usable
// candidate. Callers surface a retry prompt; the failure is never fatal.
var ErrExtractionFailed = errors.New("intent extraction failed")

// Candidate is the structured output of the extractor. Dates are absolute
// YYYY-MM-DD and times are HH:MM; relative expressions ("tomorrow") must be
// resolved by the extractor against the reference date before returning.
type Candidate struct {
	Name string `json:"name"`
	Date string `json:"date"`
	Time string `json:"time"`
}

// Extractor defines the text-to-candidate service interface.
type Extractor interface {
	// Extract parses a free-form request into a candidate. The reference
	// date anchors relative date expressions so they resolve unambiguously.
	Extract(ctx context.Context, text string, referenceDate time.Time) (*Candidate, error)
}
