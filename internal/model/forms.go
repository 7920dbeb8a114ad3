package model

// FormItemType is a Google Forms item type as reported by Apps Script
type FormItemType string

const (
	FormItemText           FormItemType = "TEXT"
	FormItemParagraphText  FormItemType = "PARAGRAPH_TEXT"
	FormItemMultipleChoice FormItemType = "MULTIPLE_CHOICE"
	FormItemList           FormItemType = "LIST"
	FormItemCheckbox       FormItemType = "CHECKBOX"
	FormItemScale          FormItemType = "SCALE"
	FormItemDate           FormItemType = "DATE"
	FormItemTime           FormItemType = "TIME"
	FormItemGrid           FormItemType = "GRID"
	FormItemCheckboxGrid   FormItemType = "CHECKBOX_GRID"
	FormItemSectionHeader  FormItemType = "SECTION_HEADER"
	FormItemPageBreak      FormItemType = "PAGE_BREAK"
)

// FormItem is one Google Forms item
type FormItem struct {
	Title    string       `json:"title"`
	Type     FormItemType `json:"type"`
	Required bool         `json:"required,omitempty"`
	Choices  []string     `json:"choices,omitempty"`
	// SCALE bounds
	LowerBound int `json:"lowerBound,omitempty"`
	UpperBound int `json:"upperBound,omitempty"`
	// GRID and CHECKBOX_GRID
	Rows    []string `json:"rows,omitempty"`
	Columns []string `json:"columns,omitempty"`
}
