package mapping

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"surveyforge/internal/model"
)

// optionColors is the Notion select palette.
var optionColors = []string{
	"default", "gray", "brown", "orange", "yellow",
	"green", "blue", "purple", "pink", "red",
}

// OptionColor picks a palette color from the option label. Equal labels
// always get the same color.
func OptionColor(label string) string {
	return optionColors[xxhash.Sum64String(label)%uint64(len(optionColors))]
}

// ToNotionSchema builds the database properties for a survey. The result
// holds the three respondent properties plus one property per question.
// It fails as a whole if any question is invalid.
func ToNotionSchema(questions []model.Question) (model.PropertySchema, error) {
	schema := model.PropertySchema{
		KeyResponseID:  {Type: model.PropertyTitle, Title: &model.EmptyConfig{}},
		KeySubmittedAt: {Type: model.PropertyDate, Date: &model.EmptyConfig{}},
		KeyEmail:       {Type: model.PropertyEmail, Email: &model.EmptyConfig{}},
	}

	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		schema[Key(i, q.Text)] = notionProperty(q)
	}

	return schema, nil
}

func notionProperty(q model.Question) model.DatabaseProperty {
	switch q.Kind {
	case model.KindMultipleChoice:
		return model.DatabaseProperty{Type: model.PropertySelect, Select: selectConfig(q.Options)}
	case model.KindCheckbox:
		return model.DatabaseProperty{Type: model.PropertyMultiSelect, MultiSelect: selectConfig(q.Options)}
	case model.KindScale:
		// Notion numbers carry no bounds; the scale max is not stored.
		return model.DatabaseProperty{Type: model.PropertyNumber, Number: &model.NumberConfig{Format: "number"}}
	case model.KindDate:
		return model.DatabaseProperty{Type: model.PropertyDate, Date: &model.EmptyConfig{}}
	default:
		// TEXT, PARAGRAPH_TEXT, TIME and anything unrecognized
		return model.DatabaseProperty{Type: model.PropertyRichText, RichText: &model.EmptyConfig{}}
	}
}

func selectConfig(options []string) *model.SelectConfig {
	cfg := &model.SelectConfig{Options: []model.SelectOption{}}
	seen := make(map[string]bool, len(options))
	for _, opt := range options {
		name := Sanitize(opt)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		cfg.Options = append(cfg.Options, model.SelectOption{Name: name, Color: OptionColor(name)})
	}
	return cfg
}

// FromNotionSchema recovers questions from database properties.
// Required flags are not stored in Notion and always come back false.
// Questions are ordered by the index in their key; properties whose name
// does not follow the key format come last, sorted by name. Each question
// keeps its property name in Key.
func FromNotionSchema(schema model.PropertySchema) []model.Question {
	type entry struct {
		index  int
		parsed bool
		name   string
		q      model.Question
	}

	entries := make([]entry, 0, len(schema))
	for name, prop := range schema {
		if IsReserved(name) {
			continue
		}
		e := entry{name: name}
		text := name
		if idx, t, ok := ParseKey(name); ok {
			e.index, e.parsed, text = idx, true, t
		}
		e.q = model.Question{
			Text:    text,
			Kind:    kindForProperty(prop.Type),
			Options: propertyOptions(prop),
			Key:     name,
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.parsed != b.parsed {
			return a.parsed
		}
		if a.parsed && a.index != b.index {
			return a.index < b.index
		}
		return a.name < b.name
	})

	questions := make([]model.Question, len(entries))
	for i, e := range entries {
		questions[i] = e.q
	}
	return questions
}

func kindForProperty(t model.PropertyType) model.QuestionKind {
	switch t {
	case model.PropertySelect:
		return model.KindMultipleChoice
	case model.PropertyMultiSelect:
		return model.KindCheckbox
	case model.PropertyNumber:
		return model.KindScale
	case model.PropertyDate:
		return model.KindDate
	default:
		return model.KindText
	}
}

func propertyOptions(prop model.DatabaseProperty) []string {
	var cfg *model.SelectConfig
	switch prop.Type {
	case model.PropertySelect:
		cfg = prop.Select
	case model.PropertyMultiSelect:
		cfg = prop.MultiSelect
	}
	if cfg == nil {
		return nil
	}
	opts := make([]string, 0, len(cfg.Options))
	for _, o := range cfg.Options {
		if name := strings.TrimSpace(o.Name); name != "" {
			opts = append(opts, name)
		}
	}
	return opts
}
