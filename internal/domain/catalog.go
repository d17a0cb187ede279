package domain

import "strings"

// ContentType is one of the supported entertainment categories.
type ContentType string

const (
	ContentMovie ContentType = "movie"
	ContentTV    ContentType = "tv"
	ContentAnime ContentType = "anime"
)

// ContentTypes lists the categories offered to clients, in display order.
var ContentTypes = []ContentType{ContentMovie, ContentTV, ContentAnime}

// Singular returns the human phrase for one item, e.g. "TV show".
// Unknown values fall back to movie wording.
func (c ContentType) Singular() string {
	switch c {
	case ContentTV:
		return "TV show"
	case ContentAnime:
		return "anime"
	default:
		return "movie"
	}
}

// Plural returns the human phrase for many items, e.g. "TV shows".
func (c ContentType) Plural() string {
	switch c {
	case ContentTV:
		return "TV shows"
	case ContentAnime:
		return "anime"
	default:
		return "movies"
	}
}

// Mood is one entry of the fixed mood vocabulary.
type Mood struct {
	ID          string `json:"id"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
}

// Moods is the mood vocabulary shown by the selection screen.
var Moods = []Mood{
	{ID: "funny", Emoji: "😆", Description: "Funny / Lighthearted"},
	{ID: "emotional", Emoji: "😢", Description: "Emotional / Tearjerker"},
	{ID: "thrilling", Emoji: "😨", Description: "Thrilling / Suspenseful"},
	{ID: "romantic", Emoji: "💘", Description: "Romantic / Heartwarming"},
	{ID: "mindBending", Emoji: "🧠", Description: "Mind-Bending / Thought-Provoking"},
	{ID: "action", Emoji: "😎", Description: "Action-Packed / Exciting"},
	{ID: "horror", Emoji: "👻", Description: "Spooky / Horror"},
}

// FindMood looks up a mood by id.
func FindMood(id string) (Mood, bool) {
	for _, m := range Moods {
		if m.ID == id {
			return m, true
		}
	}
	return Mood{}, false
}

// Languages is the language list shown by the selection screen.
var Languages = []string{
	"English",
	"Spanish",
	"French",
	"German",
	"Japanese",
	"Korean",
	"Chinese",
	"Hindi",
	"Tamil",
	"Telugu",
	"Malayalam",
	"Kannada",
	"Bengali",
	"Marathi",
	"Punjabi",
	"Gujarati",
	"Urdu",
	"Italian",
	"Portuguese",
}

// RegionalLanguages have their own film and TV industries; prompts for them
// ask for authentic content instead of dubbed international titles.
var RegionalLanguages = []string{
	"Hindi",
	"Tamil",
	"Telugu",
	"Malayalam",
	"Kannada",
	"Bengali",
	"Marathi",
	"Punjabi",
	"Gujarati",
	"Urdu",
}

// IsRegionalLanguage reports whether language is in RegionalLanguages,
// ignoring case and surrounding space.
func IsRegionalLanguage(language string) bool {
	language = strings.TrimSpace(language)
	for _, l := range RegionalLanguages {
		if strings.EqualFold(l, language) {
			return true
		}
	}
	return false
}

// IsJapanese reports whether language names Japanese.
func IsJapanese(language string) bool {
	return strings.EqualFold(strings.TrimSpace(language), "Japanese")
}

// Rating bounds offered by the selection slider.
const (
	MinRatingFloor   = 1.0
	MinRatingCeiling = 9.5
	MinRatingStep    = 0.5
)
