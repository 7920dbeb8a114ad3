// Package gforms supports the Google Forms backend: it renders the Apps
// Script that builds a form and parses the JSON that the export script emits.
package gforms

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"surveyforge/internal/model"
)

var (
	ErrEmptyExport   = errors.New("export contains no items")
	ErrInvalidExport = errors.New("invalid export")
)

var scriptTemplate = template.Must(template.New("form").Funcs(template.FuncMap{
	"str":    jsString,
	"quoted": jsStrings,
}).Parse(`function createSurveyForm() {
  var form = FormApp.create({{str .Title}});
{{- if .Description}}
  form.setDescription({{str .Description}});
{{- end}}
{{range .Items}}{{if eq .Type "PARAGRAPH_TEXT"}}
  form.addParagraphTextItem().setTitle({{str .Title}}).setRequired({{.Required}});
{{- else if eq .Type "MULTIPLE_CHOICE"}}
  form.addMultipleChoiceItem().setTitle({{str .Title}}).setChoiceValues([{{quoted .Choices}}]).setRequired({{.Required}});
{{- else if eq .Type "LIST"}}
  form.addListItem().setTitle({{str .Title}}).setChoiceValues([{{quoted .Choices}}]).setRequired({{.Required}});
{{- else if eq .Type "CHECKBOX"}}
  form.addCheckboxItem().setTitle({{str .Title}}).setChoiceValues([{{quoted .Choices}}]).setRequired({{.Required}});
{{- else if eq .Type "SCALE"}}
  form.addScaleItem().setTitle({{str .Title}}).setBounds({{.LowerBound}}, {{.UpperBound}}).setRequired({{.Required}});
{{- else if eq .Type "DATE"}}
  form.addDateItem().setTitle({{str .Title}}).setRequired({{.Required}});
{{- else if eq .Type "TIME"}}
  form.addTimeItem().setTitle({{str .Title}}).setRequired({{.Required}});
{{- else}}
  form.addTextItem().setTitle({{str .Title}}).setRequired({{.Required}});
{{- end}}{{end}}

  Logger.log('Edit URL: ' + form.getEditUrl());
  Logger.log('Published URL: ' + form.getPublishedUrl());
  return form.getPublishedUrl();
}
`))

// ExportScript is the companion script hosts run against an existing form.
// Its log output is the input of ParseExport.
const ExportScript = `function exportSurveyForm(formId) {
  var form = FormApp.openById(formId);
  var items = form.getItems().map(function (item) {
    var out = { title: item.getTitle(), type: String(item.getType()) };
    switch (item.getType()) {
      case FormApp.ItemType.MULTIPLE_CHOICE:
        var mc = item.asMultipleChoiceItem();
        out.required = mc.isRequired();
        out.choices = mc.getChoices().map(function (c) { return c.getValue(); });
        break;
      case FormApp.ItemType.LIST:
        var list = item.asListItem();
        out.required = list.isRequired();
        out.choices = list.getChoices().map(function (c) { return c.getValue(); });
        break;
      case FormApp.ItemType.CHECKBOX:
        var cb = item.asCheckboxItem();
        out.required = cb.isRequired();
        out.choices = cb.getChoices().map(function (c) { return c.getValue(); });
        break;
      case FormApp.ItemType.SCALE:
        var scale = item.asScaleItem();
        out.required = scale.isRequired();
        out.lowerBound = scale.getLowerBound();
        out.upperBound = scale.getUpperBound();
        break;
      case FormApp.ItemType.GRID:
        var grid = item.asGridItem();
        out.required = grid.isRequired();
        out.rows = grid.getRows();
        out.columns = grid.getColumns();
        break;
      case FormApp.ItemType.CHECKBOX_GRID:
        var cgrid = item.asCheckboxGridItem();
        out.required = cgrid.isRequired();
        out.rows = cgrid.getRows();
        out.columns = cgrid.getColumns();
        break;
    }
    return out;
  });
  Logger.log(JSON.stringify({ title: form.getTitle(), description: form.getDescription(), items: items }));
}
`

// Export is the document produced by ExportScript
type Export struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Items       []model.FormItem `json:"items"`
}

// GenerateAppsScript renders an Apps Script that creates the form
func GenerateAppsScript(title, description string, items []model.FormItem) (string, error) {
	var buf bytes.Buffer
	err := scriptTemplate.Execute(&buf, struct {
		Title       string
		Description string
		Items       []model.FormItem
	}{title, description, items})
	if err != nil {
		return "", fmt.Errorf("failed to render apps script: %w", err)
	}
	return buf.String(), nil
}

// ParseExport accepts either the full export document or a bare item array
func ParseExport(data []byte) (*Export, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrEmptyExport
	}

	var export Export
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &export.Items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidExport, err)
		}
	} else if err := json.Unmarshal(trimmed, &export); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExport, err)
	}

	for i := range export.Items {
		export.Items[i].Type = model.FormItemType(strings.ToUpper(string(export.Items[i].Type)))
	}

	if len(export.Items) == 0 {
		return nil, ErrEmptyExport
	}
	return &export, nil
}

// jsString renders s as a double-quoted JavaScript string literal
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func jsStrings(ss []string) string {
	quoted := make([]string, len(ss))
	for i, s := range ss {
		quoted[i] = jsString(s)
	}
	return strings.Join(quoted, ", ")
}
