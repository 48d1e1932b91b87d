package config

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	API     APIConfig
	Server  ServerConfig
	Display DisplayConfig
	Log     LogConfig
}

// APIConfig holds the calculation service location
type APIConfig struct {
	BaseURL string
}

// ServerConfig holds web front-end configuration
type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

// DisplayConfig holds user-facing presentation settings
type DisplayConfig struct {
	Language        string
	DefaultScenario string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// Load loads configuration from environment variables and .env files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("API_BASE_URL", "https://wireless-network-project-2.onrender.com")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "dev")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:8080,http://localhost:5173")
	viper.SetDefault("DISPLAY_LANGUAGE", "en")
	viper.SetDefault("DEFAULT_SCENARIO", "")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from .env files based on environment
	env := viper.GetString("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	viper.SetConfigName(".env." + env)
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// Read .env file (ignore error if file doesn't exist)
	_ = viper.ReadInConfig()

	// Environment variables override .env file values
	viper.AutomaticEnv()

	viper.BindEnv("API_BASE_URL")
	viper.BindEnv("PORT")
	viper.BindEnv("ENVIRONMENT")
	viper.BindEnv("ALLOWED_ORIGINS")
	viper.BindEnv("DISPLAY_LANGUAGE")
	viper.BindEnv("DEFAULT_SCENARIO")
	viper.BindEnv("LOG_LEVEL")

	var config Config
	config.API.BaseURL = viper.GetString("API_BASE_URL")
	config.Server.Port = viper.GetString("PORT")
	config.Server.Env = viper.GetString("ENVIRONMENT")
	config.Server.AllowedOrigins = splitList(viper.GetString("ALLOWED_ORIGINS"))
	config.Display.Language = viper.GetString("DISPLAY_LANGUAGE")
	config.Display.DefaultScenario = viper.GetString("DEFAULT_SCENARIO")
	config.Log.Level = viper.GetString("LOG_LEVEL")

	log.Debug().
		Str("api_base_url", config.API.BaseURL).
		Strs("allowed_origins", config.Server.AllowedOrigins).
		Str("language", config.Display.Language).
		Msg("Configuration loaded")

	return &config, nil
}

// SetupLogging configures the global zerolog logger for console output on stderr
func SetupLogging(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
