package config

// Config represents the core nakamura configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Feed     FeedConfig     `mapstructure:"feed"`
}

// DatabaseConfig configures the SQLite database
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig configures the nakamura web server
type ServerConfig struct {
	Port              int     `mapstructure:"port"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"` // feed endpoint rate limit
	Burst             int     `mapstructure:"burst"`               // rate limiter burst size
}

// FeedConfig configures the related-people feed policy.
//
// ItemsPerPage is the default quota for one feed run (the page size); a
// request may lower or raise it via the items parameter. MinimumResults is
// an independent policy threshold: runs that collect fewer records log a
// shortfall notice but still return their partial result.
type FeedConfig struct {
	ItemsPerPage   int `mapstructure:"items_per_page"`
	MinimumResults int `mapstructure:"minimum_results"`
}

// Server port constants
const (
	DefaultServerPort = 8577
)
