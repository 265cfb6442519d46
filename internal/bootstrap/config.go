package bootstrap

import (
	"github.com/spf13/viper"
)

// Config is the server configuration, loaded from an env-style file with
// sane defaults for local development.
type Config struct {
	ServerPort   string `mapstructure:"SERVER_PORT"`
	AllowOrigins string `mapstructure:"ALLOW_ORIGINS"`
	SearchDepth  int    `mapstructure:"SEARCH_DEPTH"`
	ClockSeconds int    `mapstructure:"CLOCK_SECONDS"`
}

func Setup(cfgPath string) (*Config, error) {
	viper.SetConfigFile(cfgPath)
	viper.SetConfigType("env")

	viper.SetDefault("SERVER_PORT", "3000")
	viper.SetDefault("ALLOW_ORIGINS", "http://localhost:5173")
	viper.SetDefault("SEARCH_DEPTH", 3)
	viper.SetDefault("CLOCK_SECONDS", 600)

	// A missing config file is fine; defaults apply.
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
