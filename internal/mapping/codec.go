package mapping

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"surveyforge/internal/model"
)

// Codec converts answers to Notion page properties and back
type Codec struct {
	NewID func() string
	Now   func() time.Time
}

// NewCodec creates a codec with timestamp-based response ids
func NewCodec() *Codec {
	return &Codec{
		NewID: NewResponseID,
		Now:   time.Now,
	}
}

// NewResponseID returns an id like R-1718000000000-1a2b3c4d
func NewResponseID() string {
	return fmt.Sprintf("R-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// Encode builds the record payload for one submission. answers is keyed by
// 0-based question index. Missing answers, indices without a question and
// unsupported values are left out; required checks belong to the caller.
func (c *Codec) Encode(questions []model.Question, answers map[int]model.Answer, respondent model.Respondent) model.ResponsePayload {
	payload := model.ResponsePayload{
		KeyResponseID: {Title: model.NewRichText(c.NewID())},
		KeySubmittedAt: {Date: &model.DateValue{
			Start: c.Now().UTC().Format(time.RFC3339),
		}},
	}

	if email := strings.TrimSpace(respondent.Email); email != "" {
		payload[KeyEmail] = model.PropertyValue{Email: &email}
	}

	for i, q := range questions {
		a, ok := answers[i]
		if !ok || a == nil {
			continue
		}
		v, ok := encodeValue(q, a)
		if !ok {
			continue
		}
		payload[PropertyName(i, q)] = v
	}

	return payload
}

func encodeValue(q model.Question, a model.Answer) (model.PropertyValue, bool) {
	switch v := a.(type) {
	case model.TextAnswer:
		s := strings.TrimSpace(string(v))
		if s == "" {
			return model.PropertyValue{}, false
		}
		if q.Kind == model.KindMultipleChoice {
			return model.PropertyValue{Select: &model.SelectValue{Name: Sanitize(s)}}, true
		}
		return model.PropertyValue{RichText: model.NewRichText(s)}, true
	case model.NumberAnswer:
		f := float64(v)
		return model.PropertyValue{Number: &f}, true
	case model.ChoicesAnswer:
		opts := make([]model.SelectValue, 0, len(v))
		for _, c := range v {
			if name := Sanitize(c); name != "" {
				opts = append(opts, model.SelectValue{Name: name})
			}
		}
		if len(opts) == 0 {
			return model.PropertyValue{}, false
		}
		return model.PropertyValue{MultiSelect: opts}, true
	case model.DateAnswer:
		return model.PropertyValue{Date: &model.DateValue{Start: v.Time.Format(model.DateLayout)}}, true
	default:
		log.Printf("[Codec] dropping unsupported answer %T for %q", a, q.Text)
		return model.PropertyValue{}, false
	}
}

// Decode maps a stored record back to answers keyed by question index.
// Respondent properties and properties that match no current question are
// skipped.
func (c *Codec) Decode(payload model.ResponsePayload, questions []model.Question) map[int]model.Answer {
	index := make(map[string]int, len(questions))
	for i, q := range questions {
		index[PropertyName(i, q)] = i
	}

	answers := make(map[int]model.Answer)
	for key, v := range payload {
		if IsReserved(key) {
			continue
		}
		i, ok := index[key]
		if !ok {
			continue
		}
		if a, ok := decodeValue(v); ok {
			answers[i] = a
		}
	}
	return answers
}

// RecordMeta holds the respondent properties of a stored record
type RecordMeta struct {
	ResponseID  string
	SubmittedAt string
	Email       string
}

// DecodeMeta extracts the respondent properties of a record
func DecodeMeta(payload model.ResponsePayload) RecordMeta {
	var meta RecordMeta
	if v, ok := payload[KeyResponseID]; ok {
		meta.ResponseID = model.PlainText(v.Title)
	}
	if v, ok := payload[KeySubmittedAt]; ok {
		switch {
		case v.Date != nil:
			meta.SubmittedAt = v.Date.Start
		case v.CreatedTime != "":
			meta.SubmittedAt = v.CreatedTime
		}
	} else if v, ok := payload[KeyCreatedAt]; ok {
		meta.SubmittedAt = v.CreatedTime
	}
	if v, ok := payload[KeyEmail]; ok && v.Email != nil {
		meta.Email = *v.Email
	}
	return meta
}

func decodeValue(v model.PropertyValue) (model.Answer, bool) {
	t := v.Type
	if t == "" {
		t = detectType(v)
	}

	switch t {
	case model.PropertyNumber:
		if v.Number == nil {
			return nil, false
		}
		return model.NumberAnswer(*v.Number), true
	case model.PropertySelect:
		if v.Select == nil {
			return nil, false
		}
		return model.TextAnswer(v.Select.Name), true
	case model.PropertyMultiSelect:
		if len(v.MultiSelect) == 0 {
			return nil, false
		}
		names := make(model.ChoicesAnswer, len(v.MultiSelect))
		for i, o := range v.MultiSelect {
			names[i] = o.Name
		}
		return names, true
	case model.PropertyDate:
		if v.Date == nil || v.Date.Start == "" {
			return nil, false
		}
		if d, ok := parseDate(v.Date.Start); ok {
			return model.DateAnswer{Time: d}, true
		}
		return model.TextAnswer(v.Date.Start), true
	case model.PropertyRichText:
		if s := model.PlainText(v.RichText); s != "" {
			return model.TextAnswer(s), true
		}
	case model.PropertyTitle:
		if s := model.PlainText(v.Title); s != "" {
			return model.TextAnswer(s), true
		}
	case model.PropertyEmail:
		if v.Email != nil && *v.Email != "" {
			return model.TextAnswer(*v.Email), true
		}
	}
	return nil, false
}

func detectType(v model.PropertyValue) model.PropertyType {
	switch {
	case v.Number != nil:
		return model.PropertyNumber
	case v.Select != nil:
		return model.PropertySelect
	case v.MultiSelect != nil:
		return model.PropertyMultiSelect
	case v.Date != nil:
		return model.PropertyDate
	case v.RichText != nil:
		return model.PropertyRichText
	case v.Title != nil:
		return model.PropertyTitle
	case v.Email != nil:
		return model.PropertyEmail
	}
	return ""
}

func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(model.DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ParseAnswer turns an untrusted JSON answer into a typed value for a
// question of the given kind. It returns nil for empty input and a
// RawAnswer for values no codec can store.
func ParseAnswer(kind model.QuestionKind, raw json.RawMessage) model.Answer {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return model.RawAnswer(raw)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		return answerFromString(kind, s, raw)
	case '[':
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return model.RawAnswer(raw)
		}
		choices := make(model.ChoicesAnswer, 0, len(list))
		for _, c := range list {
			if c = strings.TrimSpace(c); c != "" {
				choices = append(choices, c)
			}
		}
		if len(choices) == 0 {
			return nil
		}
		if kind == model.KindMultipleChoice {
			// a select column holds one option
			if len(choices) > 1 {
				return model.RawAnswer(raw)
			}
			return model.TextAnswer(choices[0])
		}
		return choices
	case '{', 't', 'f':
		return model.RawAnswer(raw)
	default:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return model.RawAnswer(raw)
		}
		if kind == model.KindScale {
			return model.NumberAnswer(f)
		}
		return answerFromString(kind, strconv.FormatFloat(f, 'f', -1, 64), raw)
	}
}

func answerFromString(kind model.QuestionKind, s string, raw []byte) model.Answer {
	switch kind {
	case model.KindDate:
		if d, ok := parseDate(s); ok {
			return model.DateAnswer{Time: d}
		}
		return model.RawAnswer(raw)
	case model.KindScale:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return model.RawAnswer(raw)
		}
		return model.NumberAnswer(f)
	case model.KindCheckbox:
		return model.ChoicesAnswer{s}
	default:
		return model.TextAnswer(s)
	}
}

// Row decodes a record into a display row keyed by question text
func (c *Codec) Row(payload model.ResponsePayload, questions []model.Question) model.ResponseRow {
	meta := DecodeMeta(payload)
	row := model.ResponseRow{
		ResponseID:  meta.ResponseID,
		SubmittedAt: meta.SubmittedAt,
		Email:       meta.Email,
		Answers:     map[string]string{},
	}
	for i, a := range c.Decode(payload, questions) {
		row.Answers[questions[i].Text] = a.Display()
	}
	return row
}
