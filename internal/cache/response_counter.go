package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ResponseCounter keeps a per-host ZSET of submission counts by form
type ResponseCounter interface {
	Increment(ctx context.Context, hostID, formID string) (int64, error)
	Counts(ctx context.Context, hostID string) (map[string]int64, error)
	Top(ctx context.Context, hostID string, limit int) ([]FormCount, error)
}

// FormCount is one ranked entry
type FormCount struct {
	FormID string `json:"formId"`
	Count  int64  `json:"count"`
	Rank   int    `json:"rank"`
}

type responseCounter struct {
	client *redis.Client
}

// NewResponseCounter creates a new response counter
func NewResponseCounter(client *redis.Client) ResponseCounter {
	return &responseCounter{
		client: client,
	}
}

func (c *responseCounter) key(hostID string) string {
	return fmt.Sprintf("host:%s:responses", hostID)
}

func (c *responseCounter) Increment(ctx context.Context, hostID, formID string) (int64, error) {
	score, err := c.client.ZIncrBy(ctx, c.key(hostID), 1, formID).Result()
	if err != nil {
		return 0, err
	}
	return int64(score), nil
}

func (c *responseCounter) Counts(ctx context.Context, hostID string) (map[string]int64, error) {
	results, err := c.client.ZRangeWithScores(ctx, c.key(hostID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(results))
	for _, z := range results {
		counts[z.Member.(string)] = int64(z.Score)
	}
	return counts, nil
}

func (c *responseCounter) Top(ctx context.Context, hostID string, limit int) ([]FormCount, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(hostID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]FormCount, len(results))
	for i, z := range results {
		entries[i] = FormCount{
			FormID: z.Member.(string),
			Count:  int64(z.Score),
			Rank:   i + 1,
		}
	}
	return entries, nil
}
