package model

import (
	"encoding/json"
	"time"
)

// Backend is the response-collection store a survey is provisioned into
type Backend string

const (
	BackendNotion      Backend = "notion"
	BackendGoogleForms Backend = "google_forms"
)

// SurveyStatus tracks the draft -> provisioned lifecycle
type SurveyStatus string

const (
	SurveyStatusDraft       SurveyStatus = "draft"
	SurveyStatusProvisioned SurveyStatus = "provisioned"
)

// Survey is a host-owned draft; once provisioned the external store is the system of record
type Survey struct {
	ID          string       `json:"id" bson:"_id,omitempty"`
	HostID      string       `json:"hostId" bson:"hostId"`
	Topic       string       `json:"topic" bson:"topic"`
	Title       string       `json:"title" bson:"title"`
	Description string       `json:"description,omitempty" bson:"description,omitempty"`
	Questions   []Question   `json:"questions" bson:"questions"`
	Backend     Backend      `json:"backend" bson:"backend"`
	Status      SurveyStatus `json:"status" bson:"status"`

	// Notion provisioning results
	NotionPageID     string `json:"notionPageId,omitempty" bson:"notionPageId,omitempty"`
	NotionDatabaseID string `json:"notionDatabaseId,omitempty" bson:"notionDatabaseId,omitempty"`
	EditURL          string `json:"editUrl,omitempty" bson:"editUrl,omitempty"`
	PublishedURL     string `json:"publishedUrl,omitempty" bson:"publishedUrl,omitempty"`

	CreatedAt     time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt" bson:"updatedAt"`
	ProvisionedAt *time.Time `json:"provisionedAt,omitempty" bson:"provisionedAt,omitempty"`
}

// IsProvisioned returns true once the survey has an external store
func (s *Survey) IsProvisioned() bool {
	return s.Status == SurveyStatusProvisioned
}

// SurveyInput is the editable part of a survey
type SurveyInput struct {
	Topic       string     `json:"topic"`
	Title       string     `json:"title" validate:"required_without=Topic,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	Backend     Backend    `json:"backend" validate:"omitempty,oneof=notion google_forms"`
	Questions   []Question `json:"questions" validate:"required,min=1,dive"`
}

// GenerateRequest asks the AI for a draft about a topic
type GenerateRequest struct {
	Topic   string  `json:"topic" validate:"required,max=500"`
	Title   string  `json:"title" validate:"max=200"`
	Count   int     `json:"count" validate:"omitempty,min=1,max=20"`
	Backend Backend `json:"backend" validate:"omitempty,oneof=notion google_forms"`
}

// ImportRequest carries the output of the Google Forms export script
type ImportRequest struct {
	Title  string          `json:"title" validate:"max=200"`
	Export json.RawMessage `json:"export" validate:"required"`
}
