package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"surveyforge/internal/model"
)

// MaxFrequentEmails caps the email history per host
const MaxFrequentEmails = 10

var ErrFormNotFound = errors.New("form not found")

// MetadataStore keeps per-host bookkeeping of created forms and the
// emails respondents used. Every write is a read-modify-write of one key
// with no isolation, so concurrent writers may overwrite each other.
type MetadataStore interface {
	SaveForm(ctx context.Context, hostID string, form model.FormMetadata) error
	ListForms(ctx context.Context, hostID string) ([]model.FormMetadata, error)
	GetForm(ctx context.Context, hostID, formID string) (*model.FormMetadata, error)
	UpdateAnalysis(ctx context.Context, hostID, formID string, rows []model.ResponseRow, analysis *model.AnalysisResult) error
	RecordEmail(ctx context.Context, hostID, email string) error
	FrequentEmails(ctx context.Context, hostID string) ([]model.EmailStat, error)
}

type metadataStore struct {
	kv  KV
	now func() time.Time
}

// NewMetadataStore creates a metadata store on top of kv
func NewMetadataStore(kv KV) MetadataStore {
	return &metadataStore{kv: kv, now: time.Now}
}

func (s *metadataStore) formsKey(hostID string) string {
	return fmt.Sprintf("host:%s:forms", hostID)
}

func (s *metadataStore) emailsKey(hostID string) string {
	return fmt.Sprintf("host:%s:emails", hostID)
}

// SaveForm inserts or replaces by id and keeps the list newest first
func (s *metadataStore) SaveForm(ctx context.Context, hostID string, form model.FormMetadata) error {
	if form.ID == "" {
		return errors.New("form id is required")
	}

	forms, err := s.ListForms(ctx, hostID)
	if err != nil {
		return err
	}

	replaced := false
	for i := range forms {
		if forms[i].ID == form.ID {
			forms[i] = form
			replaced = true
			break
		}
	}
	if !replaced {
		forms = append(forms, form)
	}

	sortForms(forms)
	return s.write(ctx, s.formsKey(hostID), forms)
}

func (s *metadataStore) ListForms(ctx context.Context, hostID string) ([]model.FormMetadata, error) {
	var forms []model.FormMetadata
	ok, err := s.read(ctx, s.formsKey(hostID), &forms)
	if err != nil {
		return nil, err
	}
	if !ok || forms == nil {
		forms = []model.FormMetadata{}
	}
	sortForms(forms)
	return forms, nil
}

func (s *metadataStore) GetForm(ctx context.Context, hostID, formID string) (*model.FormMetadata, error) {
	forms, err := s.ListForms(ctx, hostID)
	if err != nil {
		return nil, err
	}
	for i := range forms {
		if forms[i].ID == formID {
			return &forms[i], nil
		}
	}
	return nil, ErrFormNotFound
}

// UpdateAnalysis attaches decoded responses and their analysis to a saved form
func (s *metadataStore) UpdateAnalysis(ctx context.Context, hostID, formID string, rows []model.ResponseRow, analysis *model.AnalysisResult) error {
	forms, err := s.ListForms(ctx, hostID)
	if err != nil {
		return err
	}
	for i := range forms {
		if forms[i].ID == formID {
			forms[i].ResponseData = rows
			forms[i].AnalysisResult = analysis
			return s.write(ctx, s.formsKey(hostID), forms)
		}
	}
	return ErrFormNotFound
}

// RecordEmail bumps the use count of email and evicts the lowest ranked
// entries beyond MaxFrequentEmails
func (s *metadataStore) RecordEmail(ctx context.Context, hostID, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}

	stats, err := s.FrequentEmails(ctx, hostID)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	found := false
	for i := range stats {
		if stats[i].Email == email {
			stats[i].Count++
			stats[i].LastUsed = now
			found = true
			break
		}
	}
	if !found {
		stats = append(stats, model.EmailStat{Email: email, Count: 1, LastUsed: now})
	}

	sortEmails(stats)
	if len(stats) > MaxFrequentEmails {
		stats = stats[:MaxFrequentEmails]
	}
	return s.write(ctx, s.emailsKey(hostID), stats)
}

// FrequentEmails returns the history ranked by count, then by last use
func (s *metadataStore) FrequentEmails(ctx context.Context, hostID string) ([]model.EmailStat, error) {
	var stats []model.EmailStat
	ok, err := s.read(ctx, s.emailsKey(hostID), &stats)
	if err != nil {
		return nil, err
	}
	if !ok || stats == nil {
		stats = []model.EmailStat{}
	}
	sortEmails(stats)
	return stats, nil
}

// read decodes key into out and reports whether out holds usable data.
// A blob that does not decode is deleted.
func (s *metadataStore) read(ctx context.Context, key string, out interface{}) (bool, error) {
	data, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok || data == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		log.Printf("[Metadata] discarding corrupt entry %s: %v", key, err)
		if delErr := s.kv.Del(ctx, key); delErr != nil {
			log.Printf("[Metadata] failed to delete %s: %v", key, delErr)
		}
		return false, nil
	}
	return true, nil
}

func (s *metadataStore) write(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, key, string(data))
}

func sortForms(forms []model.FormMetadata) {
	sort.SliceStable(forms, func(i, j int) bool {
		return forms[i].CreatedAt.After(forms[j].CreatedAt)
	})
}

func sortEmails(stats []model.EmailStat) {
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].LastUsed.After(stats[j].LastUsed)
	})
}
