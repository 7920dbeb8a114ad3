package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"surveyforge/internal/model"
)

// SchemaCache holds the questions recovered from a Notion database so the
// public form does not hit Notion on every page load
type SchemaCache interface {
	Set(ctx context.Context, form *model.PublicForm) error
	Get(ctx context.Context, databaseID string) (*model.PublicForm, error)
	Delete(ctx context.Context, databaseID string) error
}

type schemaCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSchemaCache creates a new schema cache
func NewSchemaCache(client *redis.Client, ttl time.Duration) SchemaCache {
	return &schemaCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *schemaCache) key(databaseID string) string {
	return fmt.Sprintf("form:%s:schema", databaseID)
}

func (c *schemaCache) Set(ctx context.Context, form *model.PublicForm) error {
	data, err := json.Marshal(form)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(form.DatabaseID), data, c.ttl).Err()
}

// Get returns nil, nil on a miss
func (c *schemaCache) Get(ctx context.Context, databaseID string) (*model.PublicForm, error) {
	data, err := c.client.Get(ctx, c.key(databaseID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var form model.PublicForm
	if err := json.Unmarshal([]byte(data), &form); err != nil {
		return nil, err
	}
	return &form, nil
}

func (c *schemaCache) Delete(ctx context.Context, databaseID string) error {
	return c.client.Del(ctx, c.key(databaseID)).Err()
}
