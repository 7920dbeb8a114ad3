package model

import "time"

// FormMetadata is the host-side bookkeeping record of a provisioned form
type FormMetadata struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	QuestionCount  int             `json:"questionCount"`
	CreatedAt      time.Time       `json:"createdAt"`
	EditURL        string          `json:"editUrl,omitempty"`
	PublishedURL   string          `json:"publishedUrl,omitempty"`
	ResponseData   []ResponseRow   `json:"responseData,omitempty"`
	AnalysisResult *AnalysisResult `json:"analysisResult,omitempty"`
}

// ResponseRow is one decoded submission, keyed by question text
type ResponseRow struct {
	ResponseID  string            `json:"responseId"`
	SubmittedAt string            `json:"submittedAt,omitempty"`
	Email       string            `json:"email,omitempty"`
	Answers     map[string]string `json:"answers"`
}

// AnalysisResult is the AI summary of a form's responses
type AnalysisResult struct {
	Summary         string    `json:"summary"`
	Insights        []string  `json:"insights"`
	Recommendations []string  `json:"recommendations"`
	ResponseCount   int       `json:"responseCount"`
	GeneratedAt     time.Time `json:"generatedAt"`
}

// EmailStat is one entry of the frequency-ranked email history
type EmailStat struct {
	Email    string    `json:"email"`
	Count    int       `json:"count"`
	LastUsed time.Time `json:"lastUsed"`
}

// PublicForm is what a respondent needs to render a provisioned form
type PublicForm struct {
	DatabaseID  string     `json:"databaseId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions"`
}
