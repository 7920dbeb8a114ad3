package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrNotConfigured is returned when a required credential or identifier is missing
var ErrNotConfigured = errors.New("not configured")

// Config holds process-wide settings, built once at startup and passed down
type Config struct {
	Port      string
	MongoURI  string
	MongoDB   string
	RedisAddr string

	JWTSecret    string
	HostUsername string
	HostPassword string

	Notion NotionConfig

	PublicFormBaseURL  string
	CORSAllowedOrigins string
	SchemaCacheTTL     time.Duration
	WorkerConcurrency  int

	AI *AIConfig
}

// NotionConfig holds the record-store credentials
type NotionConfig struct {
	Token        string
	ParentPageID string
	Version      string
	BaseURL      string
}

// IsConfigured returns true when pages and databases can be created
func (n NotionConfig) IsConfigured() bool {
	return n.Token != "" && n.ParentPageID != ""
}

// Load reads .env (if present) and the environment
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file found, using environment only")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return &Config{
		Port:      v.GetString("PORT"),
		MongoURI:  v.GetString("MONGO_URI"),
		MongoDB:   v.GetString("MONGO_DB"),
		RedisAddr: strings.TrimPrefix(v.GetString("REDIS_URI"), "redis://"),

		JWTSecret:    v.GetString("JWT_SECRET"),
		HostUsername: v.GetString("HOST_USERNAME"),
		HostPassword: v.GetString("HOST_PASSWORD"),

		Notion: NotionConfig{
			Token:        v.GetString("NOTION_TOKEN"),
			ParentPageID: v.GetString("NOTION_PARENT_PAGE_ID"),
			Version:      v.GetString("NOTION_VERSION"),
			BaseURL:      v.GetString("NOTION_BASE_URL"),
		},

		PublicFormBaseURL:  strings.TrimRight(v.GetString("PUBLIC_FORM_BASE_URL"), "/"),
		CORSAllowedOrigins: v.GetString("CORS_ALLOWED_ORIGINS"),
		SchemaCacheTTL:     v.GetDuration("SCHEMA_CACHE_TTL"),
		WorkerConcurrency:  v.GetInt("WORKER_CONCURRENCY"),

		AI: loadAIConfig(v),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "surveyforge")
	v.SetDefault("REDIS_URI", "localhost:6379")
	v.SetDefault("JWT_SECRET", "super-secret-key-change-in-production")
	v.SetDefault("HOST_USERNAME", "admin")
	v.SetDefault("HOST_PASSWORD", "password123")
	v.SetDefault("NOTION_VERSION", "2022-06-28")
	v.SetDefault("NOTION_BASE_URL", "https://api.notion.com/v1")
	v.SetDefault("PUBLIC_FORM_BASE_URL", "http://localhost:5173/form")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("SCHEMA_CACHE_TTL", "10m")
	v.SetDefault("WORKER_CONCURRENCY", 5)

	v.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models")
	v.SetDefault("GEMINI_MODEL_GENERATE", "gemini-2.0-flash")
	v.SetDefault("GEMINI_MODEL_ANALYZE", "gemini-2.0-flash")
	v.SetDefault("GEMINI_TIMEOUT_MS", 30000)
}
