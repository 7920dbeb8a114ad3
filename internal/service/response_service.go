package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"surveyforge/internal/cache"
	"surveyforge/internal/mapping"
	"surveyforge/internal/model"
	"surveyforge/internal/notion"
	"surveyforge/internal/repository"
)

var (
	ErrMissingRequiredAnswer = errors.New("required question not answered")
	ErrResponseNotFound      = errors.New("response not found")
)

// ResponseService serves public forms and stores submissions
type ResponseService struct {
	notion       NotionAPI
	surveyRepo   repository.SurveyRepo
	responseRepo repository.ResponseRepo
	schemaCache  cache.SchemaCache
	metadata     cache.MetadataStore
	counter      cache.ResponseCounter
	codec        *mapping.Codec
	broadcaster  Broadcaster
}

// NewResponseService creates a new response service
func NewResponseService(
	notionAPI NotionAPI,
	surveyRepo repository.SurveyRepo,
	responseRepo repository.ResponseRepo,
	schemaCache cache.SchemaCache,
	metadata cache.MetadataStore,
	counter cache.ResponseCounter,
	broadcaster Broadcaster,
) *ResponseService {
	return &ResponseService{
		notion:       notionAPI,
		surveyRepo:   surveyRepo,
		responseRepo: responseRepo,
		schemaCache:  schemaCache,
		metadata:     metadata,
		counter:      counter,
		codec:        mapping.NewCodec(),
		broadcaster:  orNoop(broadcaster),
	}
}

// FormSchema returns the questions of a provisioned form. The Notion schema
// is authoritative; the owning draft, when found, restores required flags
// and the description that the schema cannot carry.
func (s *ResponseService) FormSchema(ctx context.Context, databaseID string) (*model.PublicForm, error) {
	if cached, err := s.schemaCache.Get(ctx, databaseID); err != nil {
		log.Printf("[Responses] Warning: schema cache read failed for %s: %v", databaseID, err)
	} else if cached != nil {
		return cached, nil
	}

	db, err := s.notion.RetrieveDatabase(ctx, databaseID)
	if err != nil {
		return nil, err
	}

	form := &model.PublicForm{
		DatabaseID: databaseID,
		Title:      db.PlainTitle(),
		Questions:  mapping.FromNotionSchema(db.Properties),
	}

	survey, err := s.surveyRepo.GetByDatabaseID(ctx, databaseID)
	if err != nil {
		log.Printf("[Responses] Warning: owner lookup failed for %s: %v", databaseID, err)
	}
	if survey != nil {
		form.Title = survey.Title
		form.Description = survey.Description
		restoreRequired(form.Questions, survey.Questions)
	}

	if err := s.schemaCache.Set(ctx, form); err != nil {
		log.Printf("[Responses] Warning: schema cache write failed for %s: %v", databaseID, err)
	}
	return form, nil
}

// Submit validates a submission against the form and writes it to Notion
func (s *ResponseService) Submit(ctx context.Context, databaseID string, sub model.Submission) (*model.SubmitResult, error) {
	form, err := s.FormSchema(ctx, databaseID)
	if err != nil {
		return nil, err
	}

	answers := make(map[int]model.Answer, len(sub.Answers))
	for idx, raw := range sub.Answers {
		if idx < 0 || idx >= len(form.Questions) {
			continue
		}
		if a := mapping.ParseAnswer(form.Questions[idx].Kind, raw); a != nil {
			answers[idx] = a
		}
	}

	for i, q := range form.Questions {
		if !q.Required {
			continue
		}
		a, ok := answers[i]
		if _, raw := a.(model.RawAnswer); !ok || raw {
			return nil, fmt.Errorf("%w: %s", ErrMissingRequiredAnswer, q.Text)
		}
	}

	payload := s.codec.Encode(form.Questions, answers, model.Respondent{Email: sub.Email})
	page, err := s.notion.CreateRecord(ctx, databaseID, payload)
	if err != nil {
		if errors.Is(err, notion.ErrValidation) {
			// the database was edited in Notion; reload the schema next time
			if derr := s.schemaCache.Delete(ctx, databaseID); derr != nil {
				log.Printf("[Responses] Warning: failed to drop cached schema for %s: %v", databaseID, derr)
			}
		}
		return nil, err
	}

	row := s.codec.Row(payload, form.Questions)
	log.Printf("[Responses] stored %s in %s", row.ResponseID, databaseID)

	survey, err := s.surveyRepo.GetByDatabaseID(ctx, databaseID)
	if err != nil {
		log.Printf("[Responses] Warning: owner lookup failed for %s: %v", databaseID, err)
	}

	record := &model.ResponseRecord{
		ResponseID:   row.ResponseID,
		DatabaseID:   databaseID,
		NotionPageID: page.ID,
		Email:        row.Email,
		Payload:      payload,
	}
	if t, err := time.Parse(time.RFC3339, row.SubmittedAt); err == nil {
		record.SubmittedAt = t
	}
	if survey != nil {
		record.SurveyID = survey.ID
	}
	if err := s.responseRepo.Upsert(ctx, record); err != nil {
		log.Printf("[Responses] Warning: mirror write failed for %s: %v", row.ResponseID, err)
	}

	if survey != nil {
		if err := s.metadata.RecordEmail(ctx, survey.HostID, sub.Email); err != nil {
			log.Printf("[Responses] Warning: email history update failed: %v", err)
		}
		if _, err := s.counter.Increment(ctx, survey.HostID, databaseID); err != nil {
			log.Printf("[Responses] Warning: response counter update failed: %v", err)
		}
	}

	s.broadcaster.BroadcastToForm(databaseID, MsgResponseSubmitted, row)

	return &model.SubmitResult{
		ResponseID:  row.ResponseID,
		SubmittedAt: row.SubmittedAt,
	}, nil
}

// ListMirrored returns the locally mirrored submissions of a host's form
func (s *ResponseService) ListMirrored(ctx context.Context, hostID, databaseID string, limit int) ([]model.ResponseRow, error) {
	survey, err := s.ownedSurvey(ctx, hostID, databaseID)
	if err != nil {
		return nil, err
	}

	records, err := s.responseRepo.ListByDatabase(ctx, databaseID, limit)
	if err != nil {
		return nil, err
	}
	rows := make([]model.ResponseRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, s.codec.Row(rec.Payload, survey.Questions))
	}
	return rows, nil
}

// CountMirrored returns how many submissions of a host's form are mirrored
func (s *ResponseService) CountMirrored(ctx context.Context, hostID, databaseID string) (int64, error) {
	if _, err := s.ownedSurvey(ctx, hostID, databaseID); err != nil {
		return 0, err
	}
	return s.responseRepo.CountByDatabase(ctx, databaseID)
}

// GetMirrored returns one mirrored submission of a host's form
func (s *ResponseService) GetMirrored(ctx context.Context, hostID, databaseID, responseID string) (*model.ResponseRow, error) {
	survey, err := s.ownedSurvey(ctx, hostID, databaseID)
	if err != nil {
		return nil, err
	}

	record, err := s.responseRepo.GetByResponseID(ctx, responseID)
	if err != nil {
		return nil, err
	}
	if record == nil || record.DatabaseID != databaseID {
		return nil, ErrResponseNotFound
	}

	row := s.codec.Row(record.Payload, survey.Questions)
	return &row, nil
}

func (s *ResponseService) ownedSurvey(ctx context.Context, hostID, databaseID string) (*model.Survey, error) {
	survey, err := s.surveyRepo.GetByDatabaseID(ctx, databaseID)
	if err != nil {
		return nil, err
	}
	if survey == nil || survey.HostID != hostID {
		return nil, ErrSurveyNotFound
	}
	return survey, nil
}

// restoreRequired copies required flags from the draft onto questions
// stored under the property the draft provisioned
func restoreRequired(questions, draft []model.Question) {
	required := make(map[string]bool, len(draft))
	for i, q := range draft {
		required[mapping.Key(i, q.Text)] = q.Required
	}
	for i := range questions {
		questions[i].Required = required[mapping.PropertyName(i, questions[i])]
	}
}
