package config

import "github.com/spf13/viper"

// GeminiModels defines which Gemini models to use for different tasks
type GeminiModels struct {
	// Generate drafts survey questions from a topic
	Generate string `json:"generate"`

	// Analyze summarizes collected responses (not blocking, runs in a worker)
	Analyze string `json:"analyze"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey    string       `json:"-"` // Never serialize
	BaseURL   string       `json:"baseUrl"`
	Models    GeminiModels `json:"models"`
	TimeoutMS int          `json:"timeoutMs"`
}

func loadAIConfig(v *viper.Viper) *AIConfig {
	return &AIConfig{
		APIKey:  v.GetString("GEMINI_API_KEY"),
		BaseURL: v.GetString("GEMINI_BASE_URL"),
		Models: GeminiModels{
			Generate: v.GetString("GEMINI_MODEL_GENERATE"),
			Analyze:  v.GetString("GEMINI_MODEL_ANALYZE"),
		},
		TimeoutMS: v.GetInt("GEMINI_TIMEOUT_MS"),
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for a given model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}
