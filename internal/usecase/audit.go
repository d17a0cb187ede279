package usecase

import (
	"fmt"

	"github.com/goccy/go-json"

	"mood-recommender/internal/domain"
)

const (
	minListEntries = 2
	maxListEntries = 3
)

// auditRecommendation reports where the model ignored the prompt. The result
// is returned to the client regardless.
func auditRecommendation(p promptParams, body []byte) []string {
	var rec domain.Recommendation
	if err := json.Unmarshal(body, &rec); err != nil {
		return []string{fmt.Sprintf("unexpected shape: %v", err)}
	}

	var issues []string
	if rec.Title == "" {
		issues = append(issues, "missing title")
	}
	if rec.Description == "" {
		issues = append(issues, "missing description")
	}
	if v, ok := rec.Rating.Value(); !ok {
		issues = append(issues, fmt.Sprintf("rating %q is not numeric", rec.Rating))
	} else if v < p.minRating {
		issues = append(issues, fmt.Sprintf("rating %s below requested %s", formatRating(v), formatRating(p.minRating)))
	}
	if n := len(rec.Genres); n < minListEntries || n > maxListEntries {
		issues = append(issues, fmt.Sprintf("genres has %d entries", n))
	}
	if n := len(rec.StreamingOn); n < minListEntries || n > maxListEntries {
		issues = append(issues, fmt.Sprintf("streamingOn has %d entries", n))
	}
	return issues
}
