package usecase

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"mood-recommender/internal/domain"
)

// resultFields are the exact keys the model must return.
var resultFields = []string{"title", "description", "rating", "language", "genres", "streamingOn"}

// promptParams is a request after defaults have been applied.
type promptParams struct {
	mood        string
	language    string
	minRating   float64
	contentType domain.ContentType
	// label is the content type as the caller spelled it, used in error
	// messages. Unknown values are phrased as movies in the prompt.
	label string
}

func resolveParams(in RecommendInput) promptParams {
	p := promptParams{
		mood:        strings.TrimSpace(in.Mood),
		language:    strings.TrimSpace(in.Language),
		minRating:   domain.DefaultMinRating,
		contentType: domain.DefaultContentType,
		label:       string(domain.DefaultContentType),
	}
	if in.MinRating != nil {
		p.minRating = *in.MinRating
	}
	if ct := strings.TrimSpace(in.ContentType); ct != "" {
		p.label = ct
		p.contentType = domain.ContentType(strings.ToLower(ct))
	}
	return p
}

func buildPromptMessages(p promptParams) []domain.ChatMessage {
	return []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: buildSystemPrompt(p)},
		{Role: domain.RoleUser, Content: buildUserPrompt(p)},
	}
}

func buildSystemPrompt(p promptParams) string {
	plural := p.contentType.Plural()
	return strings.Join([]string{
		fmt.Sprintf("You are an entertainment recommendation AI that suggests %s based on the user's mood and language preference.", plural),
		fmt.Sprintf("Provide detailed, accurate %s recommendations with title, description, IMDb rating, genres, and streaming services.", p.contentType.Singular()),
		"Only recommend content that meets or exceeds the user's minimum IMDb rating requirement.",
		fmt.Sprintf("Only recommend real, existing %s and respond in JSON format.", plural),
	}, " ")
}

func buildUserPrompt(p promptParams) string {
	singular := p.contentType.Singular()
	rating := formatRating(p.minRating)

	lines := []string{
		fmt.Sprintf("Recommend a %s that matches the mood %q%s in %s language with an IMDb rating of at least %s or higher.",
			singular, p.mood, moodHint(p.mood), p.language, rating),
	}
	if domain.IsRegionalLanguage(p.language) {
		lines = append(lines, fmt.Sprintf(
			"%s has its own film and television industry: recommend authentic %s originally made in %s by that industry, not generic international titles.",
			p.language, p.contentType.Plural(), p.language))
	}
	if p.contentType == domain.ContentAnime && !domain.IsJapanese(p.language) {
		lines = append(lines, fmt.Sprintf(
			"The requested language is not Japanese, so recommend anime that has been dubbed or has subtitles in %s.",
			p.language))
	}
	lines = append(lines,
		"",
		"Output Contract:",
		fmt.Sprintf("Respond with a single JSON object with exactly these fields: %s.", strings.Join(resultFields, ", ")),
		"title: the title as a string.",
		"description: a short description as a string.",
		"rating: the IMDb rating out of 10 as a string.",
		"language: the language of the content as a string.",
		"genres: an array of 2-3 genres.",
		"streamingOn: an array of 2-3 streaming platforms where this content might be available like Netflix, Amazon Prime, Disney+ Hotstar, SonyLIV, ZEE5, Crunchyroll, etc.",
		"",
		fmt.Sprintf("IMPORTANT: The rating must be %s or higher on IMDb. Do not include any image URLs in your response.", rating),
	)
	return strings.Join(lines, "\n")
}

func moodHint(mood string) string {
	m, ok := domain.FindMood(mood)
	if !ok {
		return ""
	}
	return " (" + m.Description + ")"
}

// formatRating renders 6.0 as "6" and 7.5 as "7.5".
func formatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var errNoContent = errors.New("no content received from model")

// parseRecommendation checks that raw is exactly one JSON value and returns
// it trimmed, otherwise unchanged. Its shape is not enforced here.
func parseRecommendation(raw string) ([]byte, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, errNoContent
	}
	var value json.RawMessage
	dec := json.NewDecoder(bytes.NewBufferString(trimmed))
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, errors.New("decode model response: multiple JSON values")
		}
		return nil, fmt.Errorf("decode model response trailing data: %w", err)
	}
	return []byte(trimmed), nil
}
