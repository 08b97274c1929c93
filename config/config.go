// Package config loads formgen settings from formgen.yaml, FORMGEN_*
// environment variables and a local .env file.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// FileName is the config file looked up in the working directory,
	// without its .yaml extension.
	FileName  = "formgen"
	EnvPrefix = "FORMGEN"
)

// Keys shared by the config file, the environment and command flags.
const (
	KeyLanguage     = "language"
	KeyTitle        = "title"
	KeyGroupsAsTabs = "groups_as_tabs"
	KeyOutput       = "output"
	KeyMarkdown     = "markdown"
	KeyDatabaseURL  = "database_url"
)

type Config struct {
	Language     string `mapstructure:"language"`
	Title        string `mapstructure:"title"`
	GroupsAsTabs bool   `mapstructure:"groups_as_tabs"`
	Output       string `mapstructure:"output"`
	Markdown     bool   `mapstructure:"markdown"`
	DatabaseURL  string `mapstructure:"database_url"`
}

// LoadEnv loads .env from the working directory when there is one.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️  No .env file found, continuing...")
	}
}

// Setup registers the config file location, env binding and defaults on v.
func Setup(v *viper.Viper, dir string) {
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyLanguage, "")
	v.SetDefault(KeyTitle, "")
	v.SetDefault(KeyGroupsAsTabs, false)
	v.SetDefault(KeyOutput, "build")
	v.SetDefault(KeyMarkdown, true)
	v.SetDefault(KeyDatabaseURL, "")
}

// Load reads the config file if present and decodes the merged settings.
// DATABASE_URL is used when no database_url is configured.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	return &c, nil
}

// RequireDatabase returns the database URL or an error when none is set.
func (c *Config) RequireDatabase() (string, error) {
	if c.DatabaseURL == "" {
		return "", errors.New("DATABASE_URL not set (in .env, environment or formgen.yaml)")
	}
	return c.DatabaseURL, nil
}
