package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"surveyforge/internal/config"
	"surveyforge/internal/model"
)

const (
	DefaultQuestionCount = 5
	MaxQuestionCount     = 20

	// rows beyond this are summarized by count only
	maxAnalysisRows = 200
)

var (
	ErrInvalidTopic = errors.New("topic is required")
	ErrAIUpstream   = errors.New("AI service failed")
	ErrAIMalformed  = errors.New("AI returned malformed output")
)

// questionSchema constrains Gemini output to the Question JSON shape
var questionSchema = map[string]interface{}{
	"type": "ARRAY",
	"items": map[string]interface{}{
		"type": "OBJECT",
		"properties": map[string]interface{}{
			"questionText": map[string]string{"type": "STRING"},
			"type": map[string]interface{}{
				"type": "STRING",
				"enum": []string{"TEXT", "PARAGRAPH_TEXT", "MULTIPLE_CHOICE", "CHECKBOX", "SCALE", "DATE", "TIME"},
			},
			"options":    map[string]interface{}{"type": "ARRAY", "items": map[string]string{"type": "STRING"}},
			"isRequired": map[string]string{"type": "BOOLEAN"},
		},
		"required": []string{"questionText", "type", "isRequired"},
	},
}

var analysisSchema = map[string]interface{}{
	"type": "OBJECT",
	"properties": map[string]interface{}{
		"summary":         map[string]string{"type": "STRING"},
		"insights":        map[string]interface{}{"type": "ARRAY", "items": map[string]string{"type": "STRING"}},
		"recommendations": map[string]interface{}{"type": "ARRAY", "items": map[string]string{"type": "STRING"}},
	},
	"required": []string{"summary", "insights", "recommendations"},
}

// GeneratorService drafts questions and analyzes responses via the Gemini API
type GeneratorService struct {
	config *config.AIConfig
	client *http.Client
	now    func() time.Time
}

// NewGeneratorService creates a new generator service
func NewGeneratorService(cfg *config.AIConfig) *GeneratorService {
	return &GeneratorService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
		now: time.Now,
	}
}

// GenerateQuestions asks the model for count questions about topic.
// Items with empty text or an unknown type are dropped.
func (s *GeneratorService) GenerateQuestions(ctx context.Context, topic string, count int) ([]model.Question, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrInvalidTopic
	}
	if !s.config.IsEnabled() {
		return nil, fmt.Errorf("gemini api key: %w", config.ErrNotConfigured)
	}
	if count <= 0 {
		count = DefaultQuestionCount
	}
	if count > MaxQuestionCount {
		count = MaxQuestionCount
	}

	response, err := s.callGemini(ctx, s.config.Models.Generate, buildGeneratePrompt(topic, count), questionSchema)
	if err != nil {
		return nil, err
	}

	var raw []struct {
		QuestionText string   `json:"questionText"`
		Type         string   `json:"type"`
		Options      []string `json:"options"`
		IsRequired   bool     `json:"isRequired"`
	}
	if err := json.Unmarshal([]byte(response), &raw); err != nil {
		log.Printf("[Generator] ERROR: unparseable question list: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrAIMalformed, err)
	}

	questions := make([]model.Question, 0, len(raw))
	for i, r := range raw {
		kind, ok := model.ParseQuestionKind(r.Type)
		if !ok {
			log.Printf("[Generator] dropping item %d: unknown type %q", i, r.Type)
			continue
		}
		q := model.Question{
			Text:     strings.TrimSpace(r.QuestionText),
			Kind:     kind,
			Options:  r.Options,
			Required: r.IsRequired,
		}
		if err := q.Validate(); err != nil {
			log.Printf("[Generator] dropping item %d: %v", i, err)
			continue
		}
		questions = append(questions, normalizeQuestion(q))
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no usable questions", ErrAIMalformed)
	}
	log.Printf("[Generator] generated %d questions for topic %q", len(questions), topic)
	return questions, nil
}

// Analyze summarizes decoded response rows
func (s *GeneratorService) Analyze(ctx context.Context, title string, questions []model.Question, rows []model.ResponseRow) (*model.AnalysisResult, error) {
	if !s.config.IsEnabled() {
		return nil, fmt.Errorf("gemini api key: %w", config.ErrNotConfigured)
	}

	result := &model.AnalysisResult{
		Insights:        []string{},
		Recommendations: []string{},
		ResponseCount:   len(rows),
		GeneratedAt:     s.now().UTC(),
	}
	if len(rows) == 0 {
		result.Summary = "No responses yet."
		return result, nil
	}

	response, err := s.callGemini(ctx, s.config.Models.Analyze, buildAnalysisPrompt(title, questions, rows), analysisSchema)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Summary         string   `json:"summary"`
		Insights        []string `json:"insights"`
		Recommendations []string `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(response), &parsed); err != nil {
		log.Printf("[Generator] ERROR: unparseable analysis: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrAIMalformed, err)
	}

	result.Summary = parsed.Summary
	if parsed.Insights != nil {
		result.Insights = parsed.Insights
	}
	if parsed.Recommendations != nil {
		result.Recommendations = parsed.Recommendations
	}
	return result, nil
}

// normalizeQuestion repairs option lists the model got wrong
func normalizeQuestion(q model.Question) model.Question {
	switch {
	case q.Kind.HasChoices():
		opts := make([]string, 0, len(q.Options))
		for _, o := range q.Options {
			if o = strings.TrimSpace(o); o != "" {
				opts = append(opts, o)
			}
		}
		if len(opts) == 0 {
			q.Kind = model.KindText
			opts = nil
		}
		q.Options = opts
	case q.Kind == model.KindScale:
		q.Options = []string{fmt.Sprint(q.ScaleMax())}
	default:
		q.Options = nil
	}
	return q
}

// callGemini makes a request to the Gemini API and returns the first text part
func (s *GeneratorService) callGemini(ctx context.Context, modelName, prompt string, schema interface{}) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"responseSchema":   schema,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.ModelEndpoint(modelName), bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.config.APIKey)

	log.Printf("[Generator] calling %s", modelName)
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAIUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode >= 400 {
		log.Printf("[Generator] ERROR: Gemini returned %d: %s", resp.StatusCode, string(body))
		return "", fmt.Errorf("%w: status %d", ErrAIUpstream, resp.StatusCode)
	}

	// Parse Gemini response structure
	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAIMalformed, err)
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("%w: empty response from Gemini", ErrAIMalformed)
}

// Prompt builders
func buildGeneratePrompt(topic string, count int) string {
	return fmt.Sprintf(`You are designing a short survey. Return ONLY a JSON array of exactly %d questions.
Each question is {"questionText": string, "type": one of TEXT, PARAGRAPH_TEXT, MULTIPLE_CHOICE, CHECKBOX, SCALE, DATE, TIME, "options": string[], "isRequired": boolean}.
MULTIPLE_CHOICE and CHECKBOX need 2 to 6 options. SCALE uses a single option holding the upper bound, e.g. ["5"].
Mix question types and keep wording neutral.

Topic: %s`, count, topic)
}

func buildAnalysisPrompt(title string, questions []model.Question, rows []model.ResponseRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the responses to the survey %q. Return ONLY JSON: {\"summary\": string, \"insights\": string[], \"recommendations\": string[]}.\n\nQuestions:\n", title)
	for i, q := range questions {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, q.Text, q.Kind)
	}

	fmt.Fprintf(&b, "\nResponses (%d total):\n", len(rows))
	for i, row := range rows {
		if i == maxAnalysisRows {
			fmt.Fprintf(&b, "... %d more responses omitted\n", len(rows)-maxAnalysisRows)
			break
		}
		parts := make([]string, 0, len(questions))
		for _, q := range questions {
			if v, ok := row.Answers[q.Text]; ok && v != "" {
				parts = append(parts, q.Text+": "+v)
			}
		}
		fmt.Fprintf(&b, "- %s\n", strings.Join(parts, " | "))
	}
	return b.String()
}
