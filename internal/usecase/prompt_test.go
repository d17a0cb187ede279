package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"mood-recommender/internal/domain"
)

func promptFor(in RecommendInput) (system, user string) {
	msgs := buildPromptMessages(resolveParams(in))
	return msgs[0].Content, msgs[1].Content
}

func TestBuildPromptMessages_Roles(t *testing.T) {
	msgs := buildPromptMessages(resolveParams(RecommendInput{Mood: "funny", Language: "English"}))
	require.Len(t, msgs, 2)
	require.Equal(t, domain.RoleSystem, msgs[0].Role)
	require.Equal(t, domain.RoleUser, msgs[1].Role)
}

func TestPrompt_DefaultMovieScenario(t *testing.T) {
	system, user := promptFor(RecommendInput{Mood: "funny", Language: "English"})
	require.Contains(t, system, "suggests movies")
	require.Contains(t, user, `Recommend a movie that matches the mood "funny" (Funny / Lighthearted) in English language`)
	require.Contains(t, user, "at least 6 or higher")
	require.Contains(t, user, "The rating must be 6 or higher")
	require.Contains(t, user, "exactly these fields: title, description, rating, language, genres, streamingOn")
	require.NotContains(t, user, "authentic")
	require.NotContains(t, user, "dubbed")
}

func TestPrompt_TamilHorrorScenario(t *testing.T) {
	_, user := promptFor(RecommendInput{Mood: "horror", Language: "Tamil", ContentType: "movie", MinRating: domain.Float64(7.0)})
	require.Contains(t, user, "Tamil has its own film and television industry")
	require.Contains(t, user, "authentic movies originally made in Tamil")
	require.Contains(t, user, "at least 7 or higher")
	require.Contains(t, user, "The rating must be 7 or higher")
}

func TestPrompt_AnimeInFrenchScenario(t *testing.T) {
	system, user := promptFor(RecommendInput{Mood: "action", Language: "French", ContentType: "anime"})
	require.Contains(t, system, "suggests anime")
	require.Contains(t, user, "Recommend a anime")
	require.Contains(t, user, "dubbed or has subtitles in French")
}

func TestPrompt_AnimeInJapaneseHasNoDubInstruction(t *testing.T) {
	_, user := promptFor(RecommendInput{Mood: "action", Language: "Japanese", ContentType: "anime"})
	require.NotContains(t, user, "dubbed")
}

func TestPrompt_DubInstructionOnlyForAnime(t *testing.T) {
	_, user := promptFor(RecommendInput{Mood: "action", Language: "French", ContentType: "tv"})
	require.NotContains(t, user, "dubbed")
	require.Contains(t, user, "Recommend a TV show")
}

func TestPrompt_FractionalRating(t *testing.T) {
	_, user := promptFor(RecommendInput{Mood: "romantic", Language: "Korean", MinRating: domain.Float64(8.5)})
	require.Contains(t, user, "at least 8.5 or higher")
}

func TestPrompt_UnknownMoodHasNoHint(t *testing.T) {
	_, user := promptFor(RecommendInput{Mood: "nostalgic", Language: "English"})
	require.Contains(t, user, `the mood "nostalgic" in English`)
}

func TestResolveParams(t *testing.T) {
	p := resolveParams(RecommendInput{Mood: " funny ", Language: "English"})
	require.Equal(t, "funny", p.mood)
	require.Equal(t, 6.0, p.minRating)
	require.Equal(t, domain.ContentMovie, p.contentType)
	require.Equal(t, "movie", p.label)

	p = resolveParams(RecommendInput{Mood: "funny", Language: "English", ContentType: "TV", MinRating: domain.Float64(3)})
	require.Equal(t, domain.ContentTV, p.contentType)
	require.Equal(t, "TV", p.label)
	require.Equal(t, 3.0, p.minRating)
}

func TestParseRecommendation(t *testing.T) {
	out, err := parseRecommendation(" " + wellFormed + " ")
	require.NoError(t, err)
	require.Equal(t, wellFormed, string(out))

	_, err = parseRecommendation("")
	require.ErrorIs(t, err, errNoContent)

	_, err = parseRecommendation("not-json")
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode model response")

	out, err = parseRecommendation(` ["a","b"] `)
	require.NoError(t, err)
	require.Equal(t, `["a","b"]`, string(out))

	out, err = parseRecommendation(`"just text"`)
	require.NoError(t, err)
	require.Equal(t, `"just text"`, string(out))

	_, err = parseRecommendation(`{"title":"a"} {"title":"b"}`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "multiple JSON values")
}

func TestAuditRecommendation(t *testing.T) {
	p := resolveParams(RecommendInput{Mood: "funny", Language: "Telugu", MinRating: domain.Float64(7)})
	require.Empty(t, auditRecommendation(p, []byte(wellFormed)))

	issues := auditRecommendation(p, []byte(`{"title":"X","description":"Y","rating":6.2,"genres":["A"],"streamingOn":["N","P","D","C"]}`))
	joined := strings.Join(issues, "; ")
	require.Contains(t, joined, "rating 6.2 below requested 7")
	require.Contains(t, joined, "genres has 1 entries")
	require.Contains(t, joined, "streamingOn has 4 entries")

	issues = auditRecommendation(p, []byte(`{"rating":"N/A","genres":"Drama"}`))
	require.Len(t, issues, 1)
	require.Contains(t, issues[0], "unexpected shape")

	issues = auditRecommendation(p, []byte(`["a","b"]`))
	require.Len(t, issues, 1)
	require.Contains(t, issues[0], "unexpected shape")
}
