package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"surveyforge/internal/cache"
	"surveyforge/internal/jobs"
	"surveyforge/internal/mapping"
	"surveyforge/internal/model"
)

// ResponseAnalyzer summarizes decoded responses
type ResponseAnalyzer interface {
	Analyze(ctx context.Context, title string, questions []model.Question, rows []model.ResponseRow) (*model.AnalysisResult, error)
}

// AnalysisQueue schedules background analysis runs
type AnalysisQueue interface {
	EnqueueAnalysis(ctx context.Context, hostID, formID string) (string, error)
}

// AnalysisService pulls a form's records from Notion and stores an AI analysis
type AnalysisService struct {
	notion      NotionAPI
	responses   *ResponseService
	metadata    cache.MetadataStore
	analyzer    ResponseAnalyzer
	queue       AnalysisQueue
	codec       *mapping.Codec
	broadcaster Broadcaster
}

// NewAnalysisService creates a new analysis service. A nil queue makes
// Enqueue run the analysis inline.
func NewAnalysisService(
	notionAPI NotionAPI,
	responses *ResponseService,
	metadata cache.MetadataStore,
	analyzer ResponseAnalyzer,
	queue AnalysisQueue,
	broadcaster Broadcaster,
) *AnalysisService {
	return &AnalysisService{
		notion:      notionAPI,
		responses:   responses,
		metadata:    metadata,
		analyzer:    analyzer,
		queue:       queue,
		codec:       mapping.NewCodec(),
		broadcaster: orNoop(broadcaster),
	}
}

// Enqueue schedules an analysis of one of the host's forms and returns the task id
func (s *AnalysisService) Enqueue(ctx context.Context, hostID, formID string) (string, error) {
	if _, err := s.metadata.GetForm(ctx, hostID, formID); err != nil {
		if errors.Is(err, cache.ErrFormNotFound) {
			return "", ErrSurveyNotFound
		}
		return "", err
	}

	if s.queue == nil {
		if _, err := s.RunNow(ctx, hostID, formID); err != nil {
			return "", err
		}
		return "", nil
	}
	return s.queue.EnqueueAnalysis(ctx, hostID, formID)
}

// RunNow fetches every record, decodes it against the current schema,
// analyzes the rows and stores both on the form metadata
func (s *AnalysisService) RunNow(ctx context.Context, hostID, formID string) (*model.AnalysisResult, error) {
	meta, err := s.metadata.GetForm(ctx, hostID, formID)
	if errors.Is(err, cache.ErrFormNotFound) {
		return nil, jobs.ErrFormGone
	}
	if err != nil {
		return nil, err
	}

	form, err := s.responses.FormSchema(ctx, formID)
	if err != nil {
		return nil, s.fail(formID, err)
	}

	pages, err := s.notion.QueryAll(ctx, formID)
	if err != nil {
		return nil, s.fail(formID, err)
	}

	rows := make([]model.ResponseRow, 0, len(pages))
	for _, page := range pages {
		row := s.codec.Row(page.Properties, form.Questions)
		if row.SubmittedAt == "" {
			row.SubmittedAt = page.CreatedTime
		}
		rows = append(rows, row)
	}
	log.Printf("[Analysis] decoded %d records for %s", len(rows), formID)

	analysis, err := s.analyzer.Analyze(ctx, meta.Title, form.Questions, rows)
	if err != nil {
		return nil, s.fail(formID, err)
	}

	if err := s.metadata.UpdateAnalysis(ctx, hostID, formID, rows, analysis); err != nil {
		return nil, fmt.Errorf("failed to store analysis: %w", err)
	}

	s.broadcaster.BroadcastToForm(formID, MsgAnalysisReady, analysis)
	return analysis, nil
}

func (s *AnalysisService) fail(formID string, err error) error {
	log.Printf("[Analysis] ERROR: analysis of %s failed: %v", formID, err)
	s.broadcaster.BroadcastToForm(formID, MsgAnalysisFailed, map[string]string{"error": err.Error()})
	return err
}
