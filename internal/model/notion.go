package model

// PropertyType is a Notion database property type tag
type PropertyType string

const (
	PropertyTitle       PropertyType = "title"
	PropertyRichText    PropertyType = "rich_text"
	PropertyNumber      PropertyType = "number"
	PropertySelect      PropertyType = "select"
	PropertyMultiSelect PropertyType = "multi_select"
	PropertyDate        PropertyType = "date"
	PropertyEmail       PropertyType = "email"
	PropertyCreatedTime PropertyType = "created_time"
)

// EmptyConfig marshals to {} for property types without options
type EmptyConfig struct{}

// NumberConfig configures a number property
type NumberConfig struct {
	Format string `json:"format,omitempty"`
}

// SelectOption is one choice of a select or multi_select property
type SelectOption struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// SelectConfig lists the options of a select or multi_select property
type SelectConfig struct {
	Options []SelectOption `json:"options"`
}

// DatabaseProperty is one column of a Notion database schema.
// Exactly one of the config pointers matching Type is set.
type DatabaseProperty struct {
	ID          string        `json:"id,omitempty"`
	Name        string        `json:"name,omitempty"`
	Type        PropertyType  `json:"type"`
	Title       *EmptyConfig  `json:"title,omitempty"`
	RichText    *EmptyConfig  `json:"rich_text,omitempty"`
	Number      *NumberConfig `json:"number,omitempty"`
	Select      *SelectConfig `json:"select,omitempty"`
	MultiSelect *SelectConfig `json:"multi_select,omitempty"`
	Date        *EmptyConfig  `json:"date,omitempty"`
	Email       *EmptyConfig  `json:"email,omitempty"`
	CreatedTime *EmptyConfig  `json:"created_time,omitempty"`
}

// PropertySchema maps property names to their definitions
type PropertySchema map[string]DatabaseProperty

// TextContent is the text payload of a rich text element
type TextContent struct {
	Content string `json:"content"`
}

// RichText is a Notion rich text element
type RichText struct {
	Type      string      `json:"type,omitempty"`
	Text      TextContent `json:"text"`
	PlainText string      `json:"plain_text,omitempty"`
}

// SelectValue names a chosen option
type SelectValue struct {
	Name string `json:"name"`
}

// DateValue is a Notion date value; Start is ISO-8601
type DateValue struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

// PropertyValue is the value of one property on a database page
type PropertyValue struct {
	Type        PropertyType  `json:"type,omitempty"`
	Title       []RichText    `json:"title,omitempty"`
	RichText    []RichText    `json:"rich_text,omitempty"`
	Number      *float64      `json:"number,omitempty"`
	Select      *SelectValue  `json:"select,omitempty"`
	MultiSelect []SelectValue `json:"multi_select,omitempty"`
	Date        *DateValue    `json:"date,omitempty"`
	Email       *string       `json:"email,omitempty"`
	CreatedTime string        `json:"created_time,omitempty"`
}

// PlainText concatenates the text of a rich text list
func PlainText(parts []RichText) string {
	s := ""
	for _, p := range parts {
		if p.PlainText != "" {
			s += p.PlainText
			continue
		}
		s += p.Text.Content
	}
	return s
}

// NewRichText wraps a string as a single rich text element
func NewRichText(s string) []RichText {
	return []RichText{{Type: "text", Text: TextContent{Content: s}}}
}

// ResponsePayload is one respondent's answers in Notion page-property form
type ResponsePayload map[string]PropertyValue
