// internal/workflows/suggester/config.go
package suggester

// Config bounds the candidate scan.
type Config struct {
	// CandidateLimit caps how many roster entries are fetched and
	// scored per proposing turn.
	CandidateLimit int `mapstructure:"candidate_limit"`
	// MinTotalStats filters out weak candidates before ranking.
	MinTotalStats int `mapstructure:"min_total_stats"`
}

func LoadConfig() *Config {
	return &Config{
		CandidateLimit: 20,
		MinTotalStats:  300,
	}
}
