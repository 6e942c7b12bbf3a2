// internal/workflows/teambuilder/config.go
package teambuilder

// Config controls how many slots a team holds.
type Config struct {
	TeamSize int `mapstructure:"team_size"`
}

func LoadConfig() *Config {
	return &Config{
		TeamSize: 3,
	}
}
