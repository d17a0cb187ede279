package domain

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

const (
	// DefaultMinRating applies when a request omits minRating.
	DefaultMinRating = 6.0
	// DefaultContentType applies when a request omits contentType.
	DefaultContentType = ContentMovie
)

// RecommendationRequest is the body of POST /api/recommendation.
type RecommendationRequest struct {
	Mood        string   `json:"mood"`
	Language    string   `json:"language"`
	MinRating   *float64 `json:"minRating,omitempty"`
	ContentType string   `json:"contentType,omitempty"`
}

// UnmarshalJSON accepts any JSON object. Fields of an unexpected type do not
// fail the decode: mood and language keep their JSON text unless it is a
// falsy literal, and minRating or contentType fall back to unset so the
// service defaults apply.
func (r *RecommendationRequest) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	*r = RecommendationRequest{
		Mood:        looseString(fields["mood"]),
		Language:    looseString(fields["language"]),
		MinRating:   looseNumber(fields["minRating"]),
		ContentType: strictString(fields["contentType"]),
	}
	return nil
}

// looseString renders a JSON value as text. Strings are unquoted; null,
// false and zero read as absent.
func looseString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	if raw[0] == '"' {
		return strictString(raw)
	}
	switch string(raw) {
	case "null", "false":
		return ""
	}
	if v, err := strconv.ParseFloat(string(raw), 64); err == nil && v == 0 {
		return ""
	}
	return string(raw)
}

func strictString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// looseNumber reads a number or a numeric string; anything else is unset.
func looseNumber(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	text := string(raw)
	if raw[0] == '"' {
		text = strings.TrimSpace(strictString(raw))
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Recommendation is the structured object produced by the model.
type Recommendation struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Rating      Rating   `json:"rating"`
	Language    string   `json:"language"`
	Genres      []string `json:"genres"`
	StreamingOn []string `json:"streamingOn"`
}

// Rating is an IMDb-style score kept as text. Models return it either as a
// JSON string ("8.1", "8.1/10") or as a bare number; both decode.
type Rating string

var leadingNumber = regexp.MustCompile(`\d+(?:\.\d+)?`)

func (r *Rating) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*r = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = Rating(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(b), 64); err != nil {
		return fmt.Errorf("domain: rating %s is neither string nor number", b)
	}
	*r = Rating(b)
	return nil
}

// Value extracts the first number in the rating text.
func (r Rating) Value() (float64, bool) {
	m := leadingNumber.FindString(string(r))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Float64 returns a pointer to v. Handy for building requests with minRating.
func Float64(v float64) *float64 {
	return &v
}
