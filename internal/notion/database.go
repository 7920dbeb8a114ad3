package notion

import (
	"context"
	"fmt"
	"net/http"

	"surveyforge/internal/model"
)

const queryPageSize = 100

// Database is the subset of a Notion database object we use
type Database struct {
	ID         string               `json:"id"`
	URL        string               `json:"url"`
	Title      []model.RichText     `json:"title"`
	Properties model.PropertySchema `json:"properties"`
}

// PlainTitle flattens the database title
func (d *Database) PlainTitle() string {
	return model.PlainText(d.Title)
}

// Page is a Notion page; for database rows Properties holds the response payload
type Page struct {
	ID          string                `json:"id"`
	URL         string                `json:"url"`
	CreatedTime string                `json:"created_time"`
	Properties  model.ResponsePayload `json:"properties"`
}

// QueryResult is one page of a database query
type QueryResult struct {
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// CreateDatabase creates an inline database under parentPageID with the given schema
func (c *Client) CreateDatabase(ctx context.Context, parentPageID, title string, schema model.PropertySchema) (*Database, error) {
	if parentPageID == "" {
		return nil, fmt.Errorf("parent page: %w", errMissingID)
	}

	body := map[string]interface{}{
		"parent": map[string]string{
			"type":    "page_id",
			"page_id": parentPageID,
		},
		"title":      model.NewRichText(title),
		"is_inline":  true,
		"properties": schema,
	}

	var db Database
	if err := c.doRequest(ctx, http.MethodPost, "/databases", body, &db); err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	return &db, nil
}

// RetrieveDatabase fetches a database including its property schema
func (c *Client) RetrieveDatabase(ctx context.Context, databaseID string) (*Database, error) {
	if databaseID == "" {
		return nil, fmt.Errorf("database: %w", errMissingID)
	}

	var db Database
	if err := c.doRequest(ctx, http.MethodGet, "/databases/"+databaseID, nil, &db); err != nil {
		return nil, fmt.Errorf("failed to retrieve database %s: %w", databaseID, err)
	}

	return &db, nil
}

// QueryDatabase fetches one page of rows, oldest first
func (c *Client) QueryDatabase(ctx context.Context, databaseID, cursor string) (*QueryResult, error) {
	if databaseID == "" {
		return nil, fmt.Errorf("database: %w", errMissingID)
	}

	body := map[string]interface{}{
		"page_size": queryPageSize,
		"sorts": []map[string]string{
			{"timestamp": "created_time", "direction": "ascending"},
		},
	}
	if cursor != "" {
		body["start_cursor"] = cursor
	}

	var result QueryResult
	path := "/databases/" + databaseID + "/query"
	if err := c.doRequest(ctx, http.MethodPost, path, body, &result); err != nil {
		return nil, fmt.Errorf("failed to query database %s: %w", databaseID, err)
	}

	return &result, nil
}

// QueryAll follows cursors until every row has been fetched
func (c *Client) QueryAll(ctx context.Context, databaseID string) ([]Page, error) {
	var (
		pages  []Page
		cursor string
	)

	for {
		result, err := c.QueryDatabase(ctx, databaseID, cursor)
		if err != nil {
			return nil, err
		}
		pages = append(pages, result.Results...)

		if !result.HasMore || result.NextCursor == nil || *result.NextCursor == "" {
			break
		}
		cursor = *result.NextCursor
	}

	return pages, nil
}
