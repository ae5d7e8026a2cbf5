package config

import (
	"os"
	"strings"
)

type Config struct {
	Port         string
	BraveKey     string
	AnthropicKey string
	VisionKey    string
	AIModel      string
	MockMode     bool
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

// Load reads configuration from the environment. Provider credentials may
// legitimately be empty here; their absence surfaces per request as an
// upstream-unavailable error, not as a startup failure.
func Load() Config {
	return Config{
		Port:         getenv("PORT", "8000"),
		BraveKey:     os.Getenv("BRAVE_SEARCH_API_KEY"),
		AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		VisionKey:    os.Getenv("GOOGLE_VISION_API_KEY"),
		AIModel:      getenv("AI_MODEL", "claude-sonnet-4-20250514"),
		MockMode:     strings.EqualFold(os.Getenv("MOCK_MODE"), "true"),
	}
}
