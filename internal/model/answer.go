package model

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Answer is one respondent value for one question.
// The set of implementations is closed: TextAnswer, NumberAnswer,
// ChoicesAnswer, DateAnswer and RawAnswer.
type Answer interface {
	isAnswer()
	// Display renders the value for dashboards and analysis prompts
	Display() string
}

// TextAnswer is free text, a single choice label or a time of day
type TextAnswer string

// NumberAnswer is a scale rating or any other numeric value
type NumberAnswer float64

// ChoicesAnswer is a multi-select value in selection order
type ChoicesAnswer []string

// DateAnswer is a calendar date
type DateAnswer struct {
	Time time.Time
}

// RawAnswer holds input that could not be decoded into a supported value.
// Codecs drop it.
type RawAnswer []byte

func (TextAnswer) isAnswer()    {}
func (NumberAnswer) isAnswer()  {}
func (ChoicesAnswer) isAnswer() {}
func (DateAnswer) isAnswer()    {}
func (RawAnswer) isAnswer()     {}

func (a TextAnswer) Display() string { return string(a) }

func (a NumberAnswer) Display() string {
	return strconv.FormatFloat(float64(a), 'f', -1, 64)
}

func (a ChoicesAnswer) Display() string { return strings.Join(a, ", ") }

func (a DateAnswer) Display() string { return a.Time.Format(DateLayout) }

func (a RawAnswer) Display() string { return string(a) }

// DateLayout is the ISO-8601 calendar date used for DATE values
const DateLayout = "2006-01-02"

// Respondent carries the identification fields collected next to the answers
type Respondent struct {
	Email string `json:"email,omitempty"`
}

// Submission is a respondent's raw form post. Answers are keyed by the
// zero-based question index and decoded per question kind.
type Submission struct {
	Email   string                  `json:"email" validate:"omitempty,email"`
	Answers map[int]json.RawMessage `json:"answers"`
}

// SubmitResult identifies a stored submission
type SubmitResult struct {
	ResponseID  string `json:"responseId"`
	SubmittedAt string `json:"submittedAt"`
}
