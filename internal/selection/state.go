// Package selection models the choices a user makes before asking for a
// recommendation, and a client that submits them to the service.
package selection

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"mood-recommender/internal/domain"
)

var (
	ErrNoMood           = errors.New("selection: mood is not selected")
	ErrUnknownMood      = errors.New("selection: unknown mood")
	ErrNoLanguage       = errors.New("selection: language is empty")
	ErrRatingOutOfRange = errors.New("selection: minimum rating out of range")
	ErrUnknownContent   = errors.New("selection: unknown content type")
)

const defaultLanguage = "English"

// State is the single container for the form and results steps. Going back
// to the form keeps every selection.
type State struct {
	mood        string
	language    string
	minRating   float64
	contentType domain.ContentType
}

func NewState() *State {
	return &State{
		language:    defaultLanguage,
		minRating:   domain.DefaultMinRating,
		contentType: domain.DefaultContentType,
	}
}

func (s *State) Mood() string                    { return s.mood }
func (s *State) Language() string                { return s.language }
func (s *State) MinRating() float64              { return s.minRating }
func (s *State) ContentType() domain.ContentType { return s.contentType }

// SelectMood accepts only ids from the mood catalog.
func (s *State) SelectMood(id string) error {
	m, ok := domain.FindMood(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMood, id)
	}
	s.mood = m.ID
	return nil
}

func (s *State) SelectLanguage(language string) error {
	language = strings.TrimSpace(language)
	if language == "" {
		return ErrNoLanguage
	}
	s.language = language
	return nil
}

// SetMinRating accepts values on the slider: 1.0 to 9.5 in 0.5 steps.
func (s *State) SetMinRating(v float64) error {
	if v < domain.MinRatingFloor || v > domain.MinRatingCeiling {
		return fmt.Errorf("%w: %v", ErrRatingOutOfRange, v)
	}
	steps := v / domain.MinRatingStep
	if math.Abs(steps-math.Round(steps)) > 1e-9 {
		return fmt.Errorf("%w: %v is not a multiple of %v", ErrRatingOutOfRange, v, domain.MinRatingStep)
	}
	s.minRating = v
	return nil
}

func (s *State) SetContentType(c domain.ContentType) error {
	for _, known := range domain.ContentTypes {
		if known == c {
			s.contentType = c
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownContent, c)
}

// CanSubmit reports whether the find action is enabled.
func (s *State) CanSubmit() bool {
	return s.mood != ""
}

// Request converts the selections into the service request body.
func (s *State) Request() (domain.RecommendationRequest, error) {
	if !s.CanSubmit() {
		return domain.RecommendationRequest{}, ErrNoMood
	}
	return domain.RecommendationRequest{
		Mood:        s.mood,
		Language:    s.language,
		MinRating:   domain.Float64(s.minRating),
		ContentType: string(s.contentType),
	}, nil
}
