package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"surveyforge/internal/cache"
	"surveyforge/internal/config"
	"surveyforge/internal/gforms"
	"surveyforge/internal/mapping"
	"surveyforge/internal/model"
	"surveyforge/internal/notion"
	"surveyforge/internal/repository"
)

var ErrSchemaBuild = errors.New("failed to build schema")

// NotionAPI is the part of the Notion client the services use
type NotionAPI interface {
	CreatePage(ctx context.Context, parentPageID, title, description string) (*notion.Page, error)
	CreateDatabase(ctx context.Context, parentPageID, title string, schema model.PropertySchema) (*notion.Database, error)
	RetrieveDatabase(ctx context.Context, databaseID string) (*notion.Database, error)
	CreateRecord(ctx context.Context, databaseID string, properties model.ResponsePayload) (*notion.Page, error)
	QueryAll(ctx context.Context, databaseID string) ([]notion.Page, error)
}

// ProvisionService creates the external store for a survey
type ProvisionService struct {
	surveys       *SurveyService
	surveyRepo    repository.SurveyRepo
	notion        NotionAPI
	metadata      cache.MetadataStore
	parentPageID  string
	publicBaseURL string
	now           func() time.Time
}

// NewProvisionService creates a new provision service
func NewProvisionService(
	surveys *SurveyService,
	surveyRepo repository.SurveyRepo,
	notionAPI NotionAPI,
	metadata cache.MetadataStore,
	cfg *config.Config,
) *ProvisionService {
	return &ProvisionService{
		surveys:       surveys,
		surveyRepo:    surveyRepo,
		notion:        notionAPI,
		metadata:      metadata,
		parentPageID:  cfg.Notion.ParentPageID,
		publicBaseURL: cfg.PublicFormBaseURL,
		now:           time.Now,
	}
}

// ProvisionNotion creates a landing page and a response database for the
// survey. Calling it again on a provisioned survey returns it unchanged.
func (s *ProvisionService) ProvisionNotion(ctx context.Context, hostID, surveyID string) (*model.Survey, error) {
	survey, err := s.surveys.Get(ctx, hostID, surveyID)
	if err != nil {
		return nil, err
	}
	if survey.IsProvisioned() {
		return survey, nil
	}
	if s.parentPageID == "" {
		return nil, fmt.Errorf("notion parent page: %w", config.ErrNotConfigured)
	}

	schema, err := mapping.ToNotionSchema(survey.Questions)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaBuild, err)
	}

	log.Printf("[Provision] creating Notion page for survey %s", survey.ID)
	page, err := s.notion.CreatePage(ctx, s.parentPageID, survey.Title, survey.Description)
	if err != nil {
		return nil, err
	}

	db, err := s.notion.CreateDatabase(ctx, page.ID, survey.Title+" Responses", schema)
	if err != nil {
		log.Printf("[Provision] ERROR: database creation failed, page %s left without database: %v", page.ID, err)
		return nil, err
	}

	now := s.now().UTC()
	survey.Backend = model.BackendNotion
	survey.Status = model.SurveyStatusProvisioned
	survey.NotionPageID = page.ID
	survey.NotionDatabaseID = db.ID
	survey.EditURL = page.URL
	survey.PublishedURL = s.publicBaseURL + "/" + db.ID
	survey.ProvisionedAt = &now

	if err := s.surveyRepo.Update(ctx, survey); err != nil {
		return nil, fmt.Errorf("failed to save provisioned survey: %w", err)
	}

	meta := model.FormMetadata{
		ID:            db.ID,
		Title:         survey.Title,
		QuestionCount: len(survey.Questions),
		CreatedAt:     now,
		EditURL:       survey.EditURL,
		PublishedURL:  survey.PublishedURL,
	}
	if err := s.metadata.SaveForm(ctx, hostID, meta); err != nil {
		log.Printf("[Provision] Warning: failed to save form metadata for %s: %v", db.ID, err)
	}

	log.Printf("[Provision] survey %s provisioned as database %s", survey.ID, db.ID)
	return survey, nil
}

// AppsScript renders the Google Forms script for a survey
func (s *ProvisionService) AppsScript(ctx context.Context, hostID, surveyID string) (string, error) {
	survey, err := s.surveys.Get(ctx, hostID, surveyID)
	if err != nil {
		return "", err
	}
	return gforms.GenerateAppsScript(survey.Title, survey.Description, mapping.ToFormItems(survey.Questions))
}
