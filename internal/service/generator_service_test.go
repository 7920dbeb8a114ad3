package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"

	"surveyforge/internal/config"
	"surveyforge/internal/model"
)

const testGeminiURL = "https://gemini.test/v1beta/models"

func newTestGenerator(t *testing.T, apiKey string) *GeneratorService {
	t.Helper()
	g := NewGeneratorService(&config.AIConfig{
		APIKey:    apiKey,
		BaseURL:   testGeminiURL,
		Models:    config.GeminiModels{Generate: "gen-model", Analyze: "analyze-model"},
		TimeoutMS: 1000,
	})
	g.now = func() time.Time { return time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC) }
	gock.InterceptClient(g.client)
	t.Cleanup(func() {
		gock.RestoreClient(g.client)
		gock.Off()
	})
	return g
}

func geminiReply(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	}
}

func TestGenerateQuestions(t *testing.T) {
	g := newTestGenerator(t, "test-key")

	gock.New(testGeminiURL).
		Post("/gen-model:generateContent").
		MatchHeader("x-goog-api-key", "test-key").
		BodyString(`"responseMimeType":"application/json"`).
		Reply(200).
		JSON(geminiReply(`[
			{"questionText": "How satisfied are you?", "type": "SCALE", "options": ["7"], "isRequired": true},
			{"questionText": "Which features do you use?", "type": "CHECKBOX", "options": ["Search", " ", "Export"], "isRequired": false},
			{"questionText": "Favourite colour", "type": "MULTIPLE_CHOICE", "options": [], "isRequired": false},
			{"questionText": "   ", "type": "TEXT", "isRequired": false},
			{"questionText": "Upload a file", "type": "FILE_UPLOAD", "isRequired": false}
		]`))

	questions, err := g.GenerateQuestions(context.Background(), "product feedback", 5)
	require.NoError(t, err)
	require.Len(t, questions, 3)

	assert.Equal(t, model.KindScale, questions[0].Kind)
	assert.Equal(t, []string{"7"}, questions[0].Options)
	assert.True(t, questions[0].Required)

	assert.Equal(t, []string{"Search", "Export"}, questions[1].Options)

	assert.Equal(t, model.KindText, questions[2].Kind)
	assert.Empty(t, questions[2].Options)
	assert.True(t, gock.IsDone())
}

func TestGenerateQuestionsRequiresKeyAndTopic(t *testing.T) {
	g := newTestGenerator(t, "")

	_, err := g.GenerateQuestions(context.Background(), "topic", 3)
	assert.ErrorIs(t, err, config.ErrNotConfigured)

	_, err = g.GenerateQuestions(context.Background(), "  ", 3)
	assert.ErrorIs(t, err, ErrInvalidTopic)
}

func TestGenerateQuestionsUpstreamFailure(t *testing.T) {
	g := newTestGenerator(t, "test-key")

	gock.New(testGeminiURL).
		Post("/gen-model:generateContent").
		Reply(500).
		JSON(map[string]string{"error": "boom"})

	_, err := g.GenerateQuestions(context.Background(), "topic", 3)
	assert.ErrorIs(t, err, ErrAIUpstream)
}

func TestGenerateQuestionsMalformedOutput(t *testing.T) {
	g := newTestGenerator(t, "test-key")

	gock.New(testGeminiURL).
		Post("/gen-model:generateContent").
		Reply(200).
		JSON(geminiReply(`{"not": "a list"}`))

	_, err := g.GenerateQuestions(context.Background(), "topic", 3)
	assert.ErrorIs(t, err, ErrAIMalformed)
}

func TestAnalyze(t *testing.T) {
	g := newTestGenerator(t, "test-key")

	gock.New(testGeminiURL).
		Post("/analyze-model:generateContent").
		BodyString(`Mood: Good`).
		Reply(200).
		JSON(geminiReply(`{"summary": "People are happy", "insights": ["Mostly good"], "recommendations": ["Keep going"]}`))

	questions := []model.Question{{Text: "Mood", Kind: model.KindMultipleChoice, Options: []string{"Good", "Bad"}}}
	rows := []model.ResponseRow{{ResponseID: "R-1", Answers: map[string]string{"Mood": "Good"}}}

	result, err := g.Analyze(context.Background(), "Pulse", questions, rows)
	require.NoError(t, err)

	assert.Equal(t, "People are happy", result.Summary)
	assert.Equal(t, []string{"Mostly good"}, result.Insights)
	assert.Equal(t, 1, result.ResponseCount)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), result.GeneratedAt)
}

func TestAnalyzeWithoutRowsSkipsModel(t *testing.T) {
	g := newTestGenerator(t, "test-key")

	result, err := g.Analyze(context.Background(), "Pulse", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, result.ResponseCount)
	assert.NotEmpty(t, result.Summary)
	assert.False(t, gock.HasUnmatchedRequest())
}
