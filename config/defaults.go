package config

import (
	"github.com/spf13/viper"
)

// Feed policy defaults. MinimumResults is policy, not derived from the page
// size; the two are configured independently.
const (
	DefaultItemsPerPage   = 25
	DefaultMinimumResults = 11
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.path", "nakamura.db")

	// Server defaults
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.requests_per_second", 25.0)
	v.SetDefault("server.burst", 50)

	// Feed defaults
	v.SetDefault("feed.items_per_page", DefaultItemsPerPage)
	v.SetDefault("feed.minimum_results", DefaultMinimumResults)
}
