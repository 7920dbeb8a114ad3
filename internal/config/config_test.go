package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NOTION_TOKEN", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "surveyforge", cfg.MongoDB)
	assert.Equal(t, "2022-06-28", cfg.Notion.Version)
	assert.Equal(t, 10*time.Minute, cfg.SchemaCacheTTL)
	assert.False(t, cfg.Notion.IsConfigured())
	assert.False(t, cfg.AI.IsEnabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("REDIS_URI", "redis://cache:6379")
	t.Setenv("NOTION_TOKEN", "secret_abc")
	t.Setenv("NOTION_PARENT_PAGE_ID", "page-1")
	t.Setenv("PUBLIC_FORM_BASE_URL", "https://forms.example.com/f/")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("GEMINI_MODEL_GENERATE", "gemini-test")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
	assert.True(t, cfg.Notion.IsConfigured())
	assert.Equal(t, "https://forms.example.com/f", cfg.PublicFormBaseURL)
	assert.True(t, cfg.AI.IsEnabled())
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta/models/gemini-test:generateContent",
		cfg.AI.ModelEndpoint(cfg.AI.Models.Generate))
}
