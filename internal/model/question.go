package model

import (
	"errors"
	"strconv"
	"strings"
)

// QuestionKind defines the type of question
type QuestionKind string

const (
	KindText           QuestionKind = "TEXT"            // Short free text
	KindParagraphText  QuestionKind = "PARAGRAPH_TEXT"  // Long free text
	KindMultipleChoice QuestionKind = "MULTIPLE_CHOICE" // Exactly one of Options
	KindCheckbox       QuestionKind = "CHECKBOX"        // Any subset of Options
	KindScale          QuestionKind = "SCALE"           // 1..Options[0]
	KindDate           QuestionKind = "DATE"
	KindTime           QuestionKind = "TIME"
)

// DefaultScaleMax is used when a SCALE question carries no usable bound
const DefaultScaleMax = 5

var ErrEmptyQuestionText = errors.New("question text is required")

var knownKinds = map[QuestionKind]bool{
	KindText:           true,
	KindParagraphText:  true,
	KindMultipleChoice: true,
	KindCheckbox:       true,
	KindScale:          true,
	KindDate:           true,
	KindTime:           true,
}

// ParseQuestionKind reports whether s names a known kind
func ParseQuestionKind(s string) (QuestionKind, bool) {
	k := QuestionKind(strings.ToUpper(strings.TrimSpace(s)))
	return k, knownKinds[k]
}

// IsKnown returns true for members of the closed kind set
func (k QuestionKind) IsKnown() bool {
	return knownKinds[k]
}

// HasChoices returns true for kinds whose Options are choice labels
func (k QuestionKind) HasChoices() bool {
	return k == KindMultipleChoice || k == KindCheckbox
}

// Question is the canonical in-memory survey question.
// The JSON shape is shared with the AI generation schema.
type Question struct {
	Text     string       `json:"questionText" bson:"text" validate:"required,max=500"`
	Kind     QuestionKind `json:"type" bson:"kind" validate:"required"`
	Options  []string     `json:"options,omitempty" bson:"options,omitempty"` // choices, or [upper bound] for SCALE
	Required bool         `json:"isRequired" bson:"required"`
	// Key is the store property name of a question read back from a schema
	Key      string       `json:"key,omitempty" bson:"-"`
}

// Validate checks the invariants a question needs before it can be mapped
func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return ErrEmptyQuestionText
	}
	return nil
}

// ScaleMax returns the upper bound of a SCALE question
func (q Question) ScaleMax() int {
	if len(q.Options) == 0 {
		return DefaultScaleMax
	}
	n, err := strconv.Atoi(strings.TrimSpace(q.Options[0]))
	if err != nil || n < 2 {
		return DefaultScaleMax
	}
	return n
}
