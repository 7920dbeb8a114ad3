package notion

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"

	"surveyforge/internal/config"
	"surveyforge/internal/mapping"
	"surveyforge/internal/model"
)

const testBaseURL = "https://notion.test/v1"

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c := NewClient(config.NotionConfig{
		Token:   "secret_test",
		Version: "2022-06-28",
		BaseURL: testBaseURL,
	})
	c.backoff = func(int) time.Duration { return time.Millisecond }
	gock.InterceptClient(c.httpClient)
	t.Cleanup(func() {
		gock.RestoreClient(c.httpClient)
		gock.Off()
	})
	return c
}

func TestRequestsFailWithoutToken(t *testing.T) {
	var logs bytes.Buffer
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	c := NewClient(config.NotionConfig{BaseURL: testBaseURL})
	assert.Contains(t, logs.String(), "[Notion Client] Warning: NOTION_TOKEN not set")

	_, err := c.RetrieveDatabase(context.Background(), "db-1")

	assert.ErrorIs(t, err, config.ErrNotConfigured)
	assert.False(t, c.IsConfigured())
}

func TestCreateDatabaseSendsSchema(t *testing.T) {
	c := newTestClient(t)

	schema, err := mapping.ToNotionSchema([]model.Question{
		{Text: "Rate us", Kind: model.KindScale, Options: []string{"5"}, Required: true},
	})
	require.NoError(t, err)

	gock.New(testBaseURL).
		Post("/databases").
		MatchHeader("Authorization", "Bearer secret_test").
		MatchHeader("Notion-Version", "2022-06-28").
		BodyString(`"Q1: Rate us"`).
		Reply(200).
		JSON(map[string]interface{}{
			"id":  "db-123",
			"url": "https://www.notion.so/db123",
			"title": []map[string]interface{}{
				{"type": "text", "text": map[string]string{"content": "Feedback"}, "plain_text": "Feedback"},
			},
		})

	db, err := c.CreateDatabase(context.Background(), "page-1", "Feedback", schema)

	require.NoError(t, err)
	assert.Equal(t, "db-123", db.ID)
	assert.Equal(t, "Feedback", db.PlainTitle())
	assert.True(t, gock.IsDone())
}

func TestRetrieveDatabaseDecodesProperties(t *testing.T) {
	c := newTestClient(t)

	gock.New(testBaseURL).
		Get("/databases/db-123").
		Reply(200).
		BodyString(`{
			"id": "db-123",
			"title": [{"plain_text": "Feedback"}],
			"properties": {
				"Response ID": {"id": "title", "name": "Response ID", "type": "title", "title": {}},
				"Q1: Color": {"id": "a1", "name": "Q1: Color", "type": "select",
					"select": {"options": [{"name": "Red", "color": "red"}, {"name": "Blue", "color": "blue"}]}},
				"Q2: Rate": {"id": "a2", "name": "Q2: Rate", "type": "number", "number": {"format": "number"}}
			}
		}`)

	db, err := c.RetrieveDatabase(context.Background(), "db-123")
	require.NoError(t, err)

	questions := mapping.FromNotionSchema(db.Properties)
	require.Len(t, questions, 2)
	assert.Equal(t, "Color", questions[0].Text)
	assert.Equal(t, model.KindMultipleChoice, questions[0].Kind)
	assert.Equal(t, []string{"Red", "Blue"}, questions[0].Options)
	assert.Equal(t, model.KindScale, questions[1].Kind)
}

func TestRateLimitedRequestIsRetried(t *testing.T) {
	c := newTestClient(t)

	gock.New(testBaseURL).
		Post("/pages").
		Reply(429).
		JSON(map[string]interface{}{"object": "error", "status": 429, "code": "rate_limited", "message": "slow down"})
	gock.New(testBaseURL).
		Post("/pages").
		Reply(200).
		JSON(map[string]interface{}{"id": "page-9"})

	page, err := c.CreateRecord(context.Background(), "db-1", model.ResponsePayload{
		mapping.KeyResponseID: {Title: model.NewRichText("R-1")},
	})

	require.NoError(t, err)
	assert.Equal(t, "page-9", page.ID)
	assert.True(t, gock.IsDone())
}

func TestRateLimitExhaustsRetries(t *testing.T) {
	c := newTestClient(t)
	c.maxRetries = 2

	gock.New(testBaseURL).
		Post("/pages").
		Times(2).
		Reply(429).
		JSON(map[string]interface{}{"status": 429, "code": "rate_limited", "message": "slow down"})

	_, err := c.CreatePage(context.Background(), "parent", "Survey", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestErrorCategories(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   string
		want   error
	}{
		{"not found", 404, "object_not_found", ErrNotFound},
		{"unauthorized", 401, "unauthorized", ErrPermission},
		{"restricted", 403, "restricted_resource", ErrPermission},
		{"validation", 400, "validation_error", ErrValidation},
		{"conflict", 409, "conflict_error", ErrConflict},
		{"server", 502, "service_unavailable", ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t)

			gock.New(testBaseURL).
				Get("/databases/db-x").
				Reply(tt.status).
				JSON(map[string]interface{}{"object": "error", "status": tt.status, "code": tt.code, "message": "boom"})

			_, err := c.RetrieveDatabase(context.Background(), "db-x")

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, "boom", apiErr.Message)
		})
	}
}

func TestQueryAllFollowsCursor(t *testing.T) {
	c := newTestClient(t)

	gock.New(testBaseURL).
		Post("/databases/db-1/query").
		Reply(200).
		BodyString(`{"results": [{"id": "p1"}, {"id": "p2"}], "has_more": true, "next_cursor": "cur-2"}`)
	gock.New(testBaseURL).
		Post("/databases/db-1/query").
		BodyString(`"start_cursor":"cur-2"`).
		Reply(200).
		BodyString(`{"results": [{"id": "p3"}], "has_more": false, "next_cursor": null}`)

	pages, err := c.QueryAll(context.Background(), "db-1")

	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, "p3", pages[2].ID)
	assert.True(t, gock.IsDone())
}

func TestMissingIdentifiersAreRejectedLocally(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.CreateDatabase(ctx, "", "T", model.PropertySchema{})
	assert.Error(t, err)

	_, err = c.CreateRecord(ctx, "", model.ResponsePayload{})
	assert.Error(t, err)

	_, err = c.QueryDatabase(ctx, "", "")
	assert.Error(t, err)
}
