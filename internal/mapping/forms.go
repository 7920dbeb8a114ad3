package mapping

import (
	"strconv"
	"strings"

	"surveyforge/internal/model"
)

// Google Forms accepts scale upper bounds between 3 and 10.
const (
	formsScaleMin = 3
	formsScaleMax = 10
)

// ToFormItems converts questions to Google Forms items, one item per question.
func ToFormItems(questions []model.Question) []model.FormItem {
	items := make([]model.FormItem, 0, len(questions))
	for _, q := range questions {
		item := model.FormItem{
			Title:    strings.TrimSpace(q.Text),
			Required: q.Required,
		}
		switch q.Kind {
		case model.KindParagraphText:
			item.Type = model.FormItemParagraphText
		case model.KindMultipleChoice:
			item.Type = model.FormItemMultipleChoice
			item.Choices = cleanChoices(q.Options)
		case model.KindCheckbox:
			item.Type = model.FormItemCheckbox
			item.Choices = cleanChoices(q.Options)
		case model.KindScale:
			item.Type = model.FormItemScale
			item.LowerBound = 1
			item.UpperBound = clamp(q.ScaleMax(), formsScaleMin, formsScaleMax)
		case model.KindDate:
			item.Type = model.FormItemDate
		case model.KindTime:
			item.Type = model.FormItemTime
		default:
			item.Type = model.FormItemText
		}
		items = append(items, item)
	}
	return items
}

// FromFormItems converts an imported Google Form into questions.
// GRID and CHECKBOX_GRID items become one question per row; this cannot be
// reversed by ToFormItems. Layout items are skipped.
func FromFormItems(items []model.FormItem) []model.Question {
	var questions []model.Question
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}

		switch item.Type {
		case model.FormItemGrid, model.FormItemCheckboxGrid:
			kind := model.KindMultipleChoice
			if item.Type == model.FormItemCheckboxGrid {
				kind = model.KindCheckbox
			}
			for _, row := range item.Rows {
				row = strings.TrimSpace(row)
				if row == "" {
					continue
				}
				questions = append(questions, model.Question{
					Text:     title + " [" + row + "]",
					Kind:     kind,
					Options:  cleanChoices(item.Columns),
					Required: item.Required,
				})
			}
			continue
		}

		q := model.Question{Text: title, Required: item.Required}
		switch item.Type {
		case model.FormItemText:
			q.Kind = model.KindText
		case model.FormItemParagraphText:
			q.Kind = model.KindParagraphText
		case model.FormItemMultipleChoice, model.FormItemList:
			q.Kind = model.KindMultipleChoice
			q.Options = cleanChoices(item.Choices)
		case model.FormItemCheckbox:
			q.Kind = model.KindCheckbox
			q.Options = cleanChoices(item.Choices)
		case model.FormItemScale:
			q.Kind = model.KindScale
			upper := item.UpperBound
			if upper <= 0 {
				upper = model.DefaultScaleMax
			}
			q.Options = []string{strconv.Itoa(upper)}
		case model.FormItemDate:
			q.Kind = model.KindDate
		case model.FormItemTime:
			q.Kind = model.KindTime
		default:
			continue
		}
		questions = append(questions, q)
	}
	return questions
}

func cleanChoices(in []string) []string {
	out := make([]string, 0, len(in))
	for _, c := range in {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
