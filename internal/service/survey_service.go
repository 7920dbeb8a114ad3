package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"surveyforge/internal/gforms"
	"surveyforge/internal/mapping"
	"surveyforge/internal/model"
	"surveyforge/internal/repository"
)

var (
	ErrSurveyNotFound    = errors.New("survey not found")
	ErrSurveyProvisioned = errors.New("survey is already provisioned and can no longer be edited")
	ErrNoQuestions       = errors.New("survey needs at least one question")
)

// QuestionGenerator drafts questions for a topic
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, topic string, count int) ([]model.Question, error)
}

// SurveyService handles survey draft operations
type SurveyService struct {
	surveyRepo repository.SurveyRepo
	generator  QuestionGenerator
}

// NewSurveyService creates a new survey service
func NewSurveyService(surveyRepo repository.SurveyRepo, generator QuestionGenerator) *SurveyService {
	return &SurveyService{
		surveyRepo: surveyRepo,
		generator:  generator,
	}
}

// Create stores a new draft owned by hostID
func (s *SurveyService) Create(ctx context.Context, hostID string, input model.SurveyInput) (*model.Survey, error) {
	questions, err := checkQuestions(input.Questions)
	if err != nil {
		return nil, err
	}

	survey := &model.Survey{
		HostID:      hostID,
		Topic:       strings.TrimSpace(input.Topic),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Questions:   questions,
		Backend:     backendOrDefault(input.Backend),
		Status:      model.SurveyStatusDraft,
	}
	if survey.Title == "" {
		survey.Title = survey.Topic
	}

	if _, err := s.surveyRepo.Create(ctx, survey); err != nil {
		return nil, fmt.Errorf("failed to create survey: %w", err)
	}
	return survey, nil
}

// Generate drafts questions with the AI and stores them as a new survey
func (s *SurveyService) Generate(ctx context.Context, hostID string, req model.GenerateRequest) (*model.Survey, error) {
	questions, err := s.generator.GenerateQuestions(ctx, req.Topic, req.Count)
	if err != nil {
		return nil, err
	}

	title := req.Title
	if strings.TrimSpace(title) == "" {
		title = req.Topic
	}
	return s.Create(ctx, hostID, model.SurveyInput{
		Topic:     req.Topic,
		Title:     title,
		Backend:   req.Backend,
		Questions: questions,
	})
}

// Import creates a draft from the output of the Google Forms export script
func (s *SurveyService) Import(ctx context.Context, hostID, title string, exportJSON []byte) (*model.Survey, error) {
	export, err := gforms.ParseExport(exportJSON)
	if err != nil {
		return nil, err
	}

	questions := mapping.FromFormItems(export.Items)
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	if strings.TrimSpace(title) == "" {
		title = export.Title
	}
	log.Printf("[Survey] importing %d questions from %d form items", len(questions), len(export.Items))

	return s.Create(ctx, hostID, model.SurveyInput{
		Title:       title,
		Description: export.Description,
		Backend:     model.BackendGoogleForms,
		Questions:   questions,
	})
}

// Get returns a survey owned by hostID
func (s *SurveyService) Get(ctx context.Context, hostID, id string) (*model.Survey, error) {
	survey, err := s.surveyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get survey: %w", err)
	}
	if survey == nil || survey.HostID != hostID {
		return nil, ErrSurveyNotFound
	}
	return survey, nil
}

// List returns all surveys for a host, newest first
func (s *SurveyService) List(ctx context.Context, hostID string) ([]*model.Survey, error) {
	return s.surveyRepo.GetByHostID(ctx, hostID)
}

// Update replaces the editable fields of a draft
func (s *SurveyService) Update(ctx context.Context, hostID, id string, input model.SurveyInput) (*model.Survey, error) {
	survey, err := s.Get(ctx, hostID, id)
	if err != nil {
		return nil, err
	}
	if survey.IsProvisioned() {
		return nil, ErrSurveyProvisioned
	}

	questions, err := checkQuestions(input.Questions)
	if err != nil {
		return nil, err
	}

	survey.Topic = strings.TrimSpace(input.Topic)
	survey.Title = strings.TrimSpace(input.Title)
	survey.Description = strings.TrimSpace(input.Description)
	survey.Questions = questions
	if input.Backend != "" {
		survey.Backend = input.Backend
	}

	if err := s.surveyRepo.Update(ctx, survey); err != nil {
		return nil, fmt.Errorf("failed to update survey: %w", err)
	}
	return survey, nil
}

// Delete removes a survey. Provisioned stores are left in place.
func (s *SurveyService) Delete(ctx context.Context, hostID, id string) error {
	if _, err := s.Get(ctx, hostID, id); err != nil {
		return err
	}
	return s.surveyRepo.Delete(ctx, id)
}

func checkQuestions(questions []model.Question) ([]model.Question, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	out := make([]model.Question, len(questions))
	for i, q := range questions {
		q.Text = strings.TrimSpace(q.Text)
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		out[i] = q
	}
	return out, nil
}

func backendOrDefault(b model.Backend) model.Backend {
	if b == "" {
		return model.BackendNotion
	}
	return b
}
