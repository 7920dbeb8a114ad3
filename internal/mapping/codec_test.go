package mapping

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyforge/internal/model"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func testCodec() *Codec {
	return &Codec{
		NewID: func() string { return "R-test" },
		Now:   func() time.Time { return fixedNow },
	}
}

func TestEncodeScaleScenario(t *testing.T) {
	qs := []model.Question{{Text: "How satisfied are you?", Kind: model.KindScale, Options: []string{"5"}, Required: true}}

	payload := testCodec().Encode(qs, map[int]model.Answer{0: model.NumberAnswer(4)}, model.Respondent{})

	require.Len(t, payload, 3)
	assert.Equal(t, "R-test", model.PlainText(payload[KeyResponseID].Title))
	require.NotNil(t, payload[KeySubmittedAt].Date)
	assert.Equal(t, "2026-03-14T09:30:00Z", payload[KeySubmittedAt].Date.Start)
	require.NotNil(t, payload["Q1: How satisfied are you?"].Number)
	assert.Equal(t, 4.0, *payload["Q1: How satisfied are you?"].Number)
	_, hasEmail := payload[KeyEmail]
	assert.False(t, hasEmail)
}

func TestEncodeValueTypes(t *testing.T) {
	qs := sampleQuestions()
	answers := map[int]model.Answer{
		0: model.TextAnswer("Ada"),
		2: model.TextAnswer("Pro"),
		3: model.ChoicesAnswer{"Email", "Chat, voice"},
		5: model.DateAnswer{Time: time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)},
		6: model.TextAnswer("10:30"),
	}

	payload := testCodec().Encode(qs, answers, model.Respondent{Email: " ada@example.com "})

	assert.Equal(t, "Ada", model.PlainText(payload["Q1: Your name"].RichText))
	require.NotNil(t, payload["Q3: Favourite plan"].Select)
	assert.Equal(t, "Pro", payload["Q3: Favourite plan"].Select.Name)
	assert.Equal(t, []model.SelectValue{{Name: "Email"}, {Name: "Chat; voice"}}, payload["Q4: Channels"].MultiSelect)
	assert.Equal(t, "2026-01-02", payload["Q6: Start date"].Date.Start)
	assert.Equal(t, "10:30", model.PlainText(payload["Q7: Best time to call"].RichText))
	require.NotNil(t, payload[KeyEmail].Email)
	assert.Equal(t, "ada@example.com", *payload[KeyEmail].Email)

	_, ok := payload["Q2: Tell us more"]
	assert.False(t, ok, "unanswered question must be absent")
}

func TestEncodeDropsUnsupportedValues(t *testing.T) {
	qs := []model.Question{
		{Text: "Nested", Kind: model.KindText},
		{Text: "Kept", Kind: model.KindText},
	}
	answers := map[int]model.Answer{
		0: model.RawAnswer(`{"a":1}`),
		1: model.TextAnswer("yes"),
		7: model.TextAnswer("no question here"),
	}

	payload := testCodec().Encode(qs, answers, model.Respondent{})

	_, ok := payload["Q1: Nested"]
	assert.False(t, ok)
	assert.Contains(t, payload, "Q2: Kept")
	assert.Len(t, payload, 3)
}

func TestEncodeDoesNotCheckRequired(t *testing.T) {
	qs := []model.Question{{Text: "Mandatory", Kind: model.KindText, Required: true}}
	payload := testCodec().Encode(qs, nil, model.Respondent{})
	assert.Len(t, payload, 2)
}

func TestDecodeInvertsEncode(t *testing.T) {
	qs := sampleQuestions()
	answers := map[int]model.Answer{
		0: model.TextAnswer("Ada"),
		2: model.TextAnswer("Pro"),
		3: model.ChoicesAnswer{"Email", "Chat"},
		4: model.NumberAnswer(3),
		5: model.DateAnswer{Time: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
	}
	c := testCodec()

	decoded := c.Decode(c.Encode(qs, answers, model.Respondent{Email: "a@x.com"}), qs)

	assert.Equal(t, answers, decoded)
}

func TestDecodeSurvivesSchemaDrift(t *testing.T) {
	c := testCodec()
	before := []model.Question{
		{Text: "Old wording", Kind: model.KindText},
		{Text: "Stable", Kind: model.KindText},
	}
	payload := c.Encode(before, map[int]model.Answer{0: model.TextAnswer("x"), 1: model.TextAnswer("y")}, model.Respondent{})

	after := []model.Question{
		{Text: "New wording", Kind: model.KindText},
		{Text: "Stable", Kind: model.KindText},
	}
	decoded := c.Decode(payload, after)

	assert.Equal(t, map[int]model.Answer{1: model.TextAnswer("y")}, decoded)
}

func TestDecodeNotionResponse(t *testing.T) {
	raw := `{
		"Response ID": {"id": "title", "type": "title", "title": [{"type": "text", "text": {"content": "R-1"}, "plain_text": "R-1"}]},
		"Submitted At": {"id": "a", "type": "date", "date": {"start": "2026-03-14T09:30:00.000Z", "end": null}},
		"Email": {"id": "b", "type": "email", "email": "a@x.com"},
		"Q1: How satisfied are you?": {"id": "c", "type": "number", "number": 4},
		"Q2: Comments": {"id": "d", "type": "rich_text", "rich_text": []},
		"Q3: Plan": {"id": "e", "type": "select", "select": null}
	}`
	var payload model.ResponsePayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	qs := []model.Question{
		{Text: "How satisfied are you?", Kind: model.KindScale},
		{Text: "Comments", Kind: model.KindText},
		{Text: "Plan", Kind: model.KindMultipleChoice},
	}
	decoded := testCodec().Decode(payload, qs)
	assert.Equal(t, map[int]model.Answer{0: model.NumberAnswer(4)}, decoded)

	meta := DecodeMeta(payload)
	assert.Equal(t, "R-1", meta.ResponseID)
	assert.Equal(t, "2026-03-14T09:30:00.000Z", meta.SubmittedAt)
	assert.Equal(t, "a@x.com", meta.Email)
}

func TestParseAnswer(t *testing.T) {
	cases := []struct {
		name string
		kind model.QuestionKind
		raw  string
		want model.Answer
	}{
		{"text", model.KindText, `"hello"`, model.TextAnswer("hello")},
		{"blank text", model.KindText, `"  "`, nil},
		{"null", model.KindText, `null`, nil},
		{"number for scale", model.KindScale, `4`, model.NumberAnswer(4)},
		{"string for scale", model.KindScale, `"3"`, model.NumberAnswer(3)},
		{"number for text", model.KindText, `42`, model.TextAnswer("42")},
		{"choices", model.KindCheckbox, `["a","b"]`, model.ChoicesAnswer{"a", "b"}},
		{"single checkbox string", model.KindCheckbox, `"a"`, model.ChoicesAnswer{"a"}},
		{"single choice list", model.KindMultipleChoice, `["a"]`, model.TextAnswer("a")},
		{"date", model.KindDate, `"2026-02-03"`, model.DateAnswer{Time: time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)}},
		{"bad date", model.KindDate, `"tomorrow"`, model.RawAnswer(`"tomorrow"`)},
		{"object", model.KindText, `{"nested":true}`, model.RawAnswer(`{"nested":true}`)},
		{"bool", model.KindText, `true`, model.RawAnswer(`true`)},
		{"blank choices", model.KindCheckbox, `["  ", ""]`, nil},
		{"trimmed choices", model.KindCheckbox, `[" a ", " "]`, model.ChoicesAnswer{"a"}},
		{"several choices for select", model.KindMultipleChoice, `["a","b"]`, model.RawAnswer(`["a","b"]`)},
		{"padded single choice", model.KindMultipleChoice, `["", "a"]`, model.TextAnswer("a")},
		{"mixed list", model.KindCheckbox, `[1,{"a":2}]`, model.RawAnswer(`[1,{"a":2}]`)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ParseAnswer(c.kind, json.RawMessage(c.raw)))
		})
	}
}

func TestParsedObjectIsDroppedByEncode(t *testing.T) {
	qs := []model.Question{{Text: "Anything", Kind: model.KindText}}
	a := ParseAnswer(model.KindText, json.RawMessage(`{"deep":{"x":1}}`))

	payload := testCodec().Encode(qs, map[int]model.Answer{0: a}, model.Respondent{})

	assert.NotContains(t, payload, "Q1: Anything")
}

func TestAnswerDisplay(t *testing.T) {
	assert.Equal(t, "4.5", model.NumberAnswer(4.5).Display())
	assert.Equal(t, "a, b", model.ChoicesAnswer{"a", "b"}.Display())
	assert.Equal(t, "2026-02-03", model.DateAnswer{Time: time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC)}.Display())
}

func TestNewResponseIDIsUnique(t *testing.T) {
	assert.NotEqual(t, NewResponseID(), NewResponseID())
	assert.Regexp(t, `^R-\d+-[0-9a-f]{8}$`, NewResponseID())
}

func TestRowUsesQuestionTextAndMeta(t *testing.T) {
	qs := []model.Question{
		{Text: "Mood", Kind: model.KindMultipleChoice, Options: []string{"Good", "Bad"}},
		{Text: "Score", Kind: model.KindScale},
	}
	c := testCodec()
	payload := c.Encode(qs, map[int]model.Answer{0: model.TextAnswer("Good"), 1: model.NumberAnswer(3)},
		model.Respondent{Email: "a@x.com"})

	row := c.Row(payload, qs)

	assert.Equal(t, "R-test", row.ResponseID)
	assert.Equal(t, "2026-03-14T09:30:00Z", row.SubmittedAt)
	assert.Equal(t, "a@x.com", row.Email)
	assert.Equal(t, map[string]string{"Mood": "Good", "Score": "3"}, row.Answers)
}
