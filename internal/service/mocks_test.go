package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"surveyforge/internal/cache"
	"surveyforge/internal/model"
	"surveyforge/internal/notion"
)

type mockSurveyRepo struct {
	mock.Mock
}

func (m *mockSurveyRepo) Create(ctx context.Context, survey *model.Survey) (string, error) {
	args := m.Called(ctx, survey)
	return args.String(0), args.Error(1)
}

func (m *mockSurveyRepo) GetByID(ctx context.Context, id string) (*model.Survey, error) {
	args := m.Called(ctx, id)
	if s := args.Get(0); s != nil {
		return s.(*model.Survey), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSurveyRepo) GetByDatabaseID(ctx context.Context, databaseID string) (*model.Survey, error) {
	args := m.Called(ctx, databaseID)
	if s := args.Get(0); s != nil {
		return s.(*model.Survey), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSurveyRepo) GetByHostID(ctx context.Context, hostID string) ([]*model.Survey, error) {
	args := m.Called(ctx, hostID)
	return args.Get(0).([]*model.Survey), args.Error(1)
}

func (m *mockSurveyRepo) Update(ctx context.Context, survey *model.Survey) error {
	return m.Called(ctx, survey).Error(0)
}

func (m *mockSurveyRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockResponseRepo struct {
	mock.Mock
}

func (m *mockResponseRepo) Upsert(ctx context.Context, record *model.ResponseRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *mockResponseRepo) GetByResponseID(ctx context.Context, responseID string) (*model.ResponseRecord, error) {
	args := m.Called(ctx, responseID)
	if r := args.Get(0); r != nil {
		return r.(*model.ResponseRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockResponseRepo) ListByDatabase(ctx context.Context, databaseID string, limit int) ([]*model.ResponseRecord, error) {
	args := m.Called(ctx, databaseID, limit)
	return args.Get(0).([]*model.ResponseRecord), args.Error(1)
}

func (m *mockResponseRepo) CountByDatabase(ctx context.Context, databaseID string) (int64, error) {
	args := m.Called(ctx, databaseID)
	return args.Get(0).(int64), args.Error(1)
}

type mockNotion struct {
	mock.Mock
}

func (m *mockNotion) CreatePage(ctx context.Context, parentPageID, title, description string) (*notion.Page, error) {
	args := m.Called(ctx, parentPageID, title, description)
	if p := args.Get(0); p != nil {
		return p.(*notion.Page), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNotion) CreateDatabase(ctx context.Context, parentPageID, title string, schema model.PropertySchema) (*notion.Database, error) {
	args := m.Called(ctx, parentPageID, title, schema)
	if d := args.Get(0); d != nil {
		return d.(*notion.Database), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNotion) RetrieveDatabase(ctx context.Context, databaseID string) (*notion.Database, error) {
	args := m.Called(ctx, databaseID)
	if d := args.Get(0); d != nil {
		return d.(*notion.Database), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNotion) CreateRecord(ctx context.Context, databaseID string, properties model.ResponsePayload) (*notion.Page, error) {
	args := m.Called(ctx, databaseID, properties)
	if p := args.Get(0); p != nil {
		return p.(*notion.Page), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNotion) QueryAll(ctx context.Context, databaseID string) ([]notion.Page, error) {
	args := m.Called(ctx, databaseID)
	if p := args.Get(0); p != nil {
		return p.([]notion.Page), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSchemaCache struct {
	mock.Mock
}

func (m *mockSchemaCache) Set(ctx context.Context, form *model.PublicForm) error {
	return m.Called(ctx, form).Error(0)
}

func (m *mockSchemaCache) Get(ctx context.Context, databaseID string) (*model.PublicForm, error) {
	args := m.Called(ctx, databaseID)
	if f := args.Get(0); f != nil {
		return f.(*model.PublicForm), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSchemaCache) Delete(ctx context.Context, databaseID string) error {
	return m.Called(ctx, databaseID).Error(0)
}

type mockMetadata struct {
	mock.Mock
}

func (m *mockMetadata) SaveForm(ctx context.Context, hostID string, form model.FormMetadata) error {
	return m.Called(ctx, hostID, form).Error(0)
}

func (m *mockMetadata) ListForms(ctx context.Context, hostID string) ([]model.FormMetadata, error) {
	args := m.Called(ctx, hostID)
	return args.Get(0).([]model.FormMetadata), args.Error(1)
}

func (m *mockMetadata) GetForm(ctx context.Context, hostID, formID string) (*model.FormMetadata, error) {
	args := m.Called(ctx, hostID, formID)
	if f := args.Get(0); f != nil {
		return f.(*model.FormMetadata), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMetadata) UpdateAnalysis(ctx context.Context, hostID, formID string, rows []model.ResponseRow, analysis *model.AnalysisResult) error {
	return m.Called(ctx, hostID, formID, rows, analysis).Error(0)
}

func (m *mockMetadata) RecordEmail(ctx context.Context, hostID, email string) error {
	return m.Called(ctx, hostID, email).Error(0)
}

func (m *mockMetadata) FrequentEmails(ctx context.Context, hostID string) ([]model.EmailStat, error) {
	args := m.Called(ctx, hostID)
	return args.Get(0).([]model.EmailStat), args.Error(1)
}

type mockCounter struct {
	mock.Mock
}

func (m *mockCounter) Increment(ctx context.Context, hostID, formID string) (int64, error) {
	args := m.Called(ctx, hostID, formID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCounter) Counts(ctx context.Context, hostID string) (map[string]int64, error) {
	args := m.Called(ctx, hostID)
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *mockCounter) Top(ctx context.Context, hostID string, limit int) ([]cache.FormCount, error) {
	args := m.Called(ctx, hostID, limit)
	return args.Get(0).([]cache.FormCount), args.Error(1)
}

type mockBroadcaster struct {
	mock.Mock
}

func (m *mockBroadcaster) BroadcastToForm(formID string, msgType string, payload interface{}) {
	m.Called(formID, msgType, payload)
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) GenerateQuestions(ctx context.Context, topic string, count int) ([]model.Question, error) {
	args := m.Called(ctx, topic, count)
	if q := args.Get(0); q != nil {
		return q.([]model.Question), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) Analyze(ctx context.Context, title string, questions []model.Question, rows []model.ResponseRow) (*model.AnalysisResult, error) {
	args := m.Called(ctx, title, questions, rows)
	if r := args.Get(0); r != nil {
		return r.(*model.AnalysisResult), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockQueue struct {
	mock.Mock
}

func (m *mockQueue) EnqueueAnalysis(ctx context.Context, hostID, formID string) (string, error) {
	args := m.Called(ctx, hostID, formID)
	return args.String(0), args.Error(1)
}
