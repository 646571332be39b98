package intent

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// parseCandidate extracts the candidate JSON from a model response. Models
// occasionally wrap the JSON in code fences or surrounding prose, so the
// parser locates the outermost object before unmarshalling.
func parseCandidate(raw string) (*Candidate, error) {
	cleaned := strings.TrimSpace(raw)

	// Strip markdown code fences if present.
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	// Locate the outermost JSON object. LastIndex guards against braces in
	// surrounding prose after the object.
	startIdx := strings.Index(cleaned, "{")
	endIdx := strings.LastIndex(cleaned, "}")
	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return nil, errors.New("no JSON object in response")
	}
	cleaned = cleaned[startIdx : endIdx+1]

	var candidate Candidate
	if err := json.Unmarshal([]byte(cleaned), &candidate); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal candidate JSON")
	}

	if strings.TrimSpace(candidate.Name) == "" {
		return nil, errors.New("candidate is missing the patient name")
	}
	if candidate.Date == "" || candidate.Time == "" {
		return nil, errors.New("candidate is missing date or time")
	}

	return &candidate, nil
}
