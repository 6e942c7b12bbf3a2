// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	PokeAPI PokeAPIConfig `mapstructure:"pokeapi"`
	Server  ServerConfig  `mapstructure:"server"`
	Team    TeamConfig    `mapstructure:"team"`
	Suggest SuggestConfig `mapstructure:"suggest"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// PokeAPIConfig holds settings for the upstream data provider.
type PokeAPIConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	Timeout   int    `mapstructure:"timeout"` // milliseconds
	UserAgent string `mapstructure:"user_agent"`
	PageLimit int    `mapstructure:"page_limit"` // hard cap for paginated listings
}

// ServerConfig holds transport-side settings.
type ServerConfig struct {
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// TeamConfig holds settings for the team builder workflow.
type TeamConfig struct {
	Size int `mapstructure:"size"`
}

// SuggestConfig holds settings for the suggestion workflow.
type SuggestConfig struct {
	CandidateLimit int `mapstructure:"candidate_limit"`
	MinTotalStats  int `mapstructure:"min_total_stats"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
