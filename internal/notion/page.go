package notion

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"surveyforge/internal/model"
)

var errMissingID = errors.New("notion: missing id")

// CreatePage creates a child page titled title with an optional description paragraph
func (c *Client) CreatePage(ctx context.Context, parentPageID, title, description string) (*Page, error) {
	if parentPageID == "" {
		return nil, fmt.Errorf("parent page: %w", errMissingID)
	}

	body := map[string]interface{}{
		"parent": map[string]string{
			"type":    "page_id",
			"page_id": parentPageID,
		},
		"properties": map[string]interface{}{
			"title": map[string]interface{}{
				"title": model.NewRichText(title),
			},
		},
	}
	if description != "" {
		body["children"] = []map[string]interface{}{
			{
				"object": "block",
				"type":   "paragraph",
				"paragraph": map[string]interface{}{
					"rich_text": model.NewRichText(description),
				},
			},
		}
	}

	var page Page
	if err := c.doRequest(ctx, http.MethodPost, "/pages", body, &page); err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &page, nil
}

// CreateRecord inserts one row into a database
func (c *Client) CreateRecord(ctx context.Context, databaseID string, properties model.ResponsePayload) (*Page, error) {
	if databaseID == "" {
		return nil, fmt.Errorf("database: %w", errMissingID)
	}

	body := map[string]interface{}{
		"parent": map[string]string{
			"database_id": databaseID,
		},
		"properties": properties,
	}

	var page Page
	if err := c.doRequest(ctx, http.MethodPost, "/pages", body, &page); err != nil {
		return nil, fmt.Errorf("failed to create record in %s: %w", databaseID, err)
	}

	return &page, nil
}
