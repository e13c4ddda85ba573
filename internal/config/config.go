// Package config loads the application configuration.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	SourceREST    = "rest"
	SourceGraphQL = "graphql"
)

const (
	DefaultHandle        = "Wissal-badri"
	DefaultAPIBaseURL    = "https://api.github.com/"
	DefaultGraphQLURL    = "https://api.github.com/graphql"
	DefaultPerPage       = 100
	DefaultFeaturedLimit = 6
)

// Config holds application configuration.
type Config struct {
	Handle                 string            `yaml:"handle"`
	Source                 string            `yaml:"source"`
	APIBaseURL             string            `yaml:"api_base_url"`
	GraphQLURL             string            `yaml:"graphql_url"`
	PerPage                int               `yaml:"per_page"`
	FeaturedLimit          int               `yaml:"featured_limit"`
	WaitSecondaryRateLimit bool              `yaml:"wait_secondary_rate_limit"`
	LanguageImages         map[string]string `yaml:"language_images"`
	DefaultImage           string            `yaml:"default_image"`

	// Token comes from GITHUB_TOKEN only, never from the file.
	Token string `yaml:"-"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Handle:        DefaultHandle,
		Source:        SourceREST,
		APIBaseURL:    DefaultAPIBaseURL,
		GraphQLURL:    DefaultGraphQLURL,
		PerPage:       DefaultPerPage,
		FeaturedLimit: DefaultFeaturedLimit,
	}
}

// Load reads the YAML file at path, if any, over the defaults, then applies
// environment overrides and validates the result.
func Load(path string) (cfg Config, err error) {
	cfg = Default()

	if path != "" {
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			err = errors.Wrapf(err, "failed to read config file: %s", path)
			return cfg, err
		}

		var file Config
		err = yaml.Unmarshal(data, &file)
		if err != nil {
			err = errors.Wrapf(err, "failed to parse config file: %s", path)
			return cfg, err
		}
		cfg.merge(file)
	}

	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.Token = token
	}

	err = cfg.Validate()
	return cfg, err
}

// merge copies the non-zero fields of other into c.
func (c *Config) merge(other Config) {
	if other.Handle != "" {
		c.Handle = other.Handle
	}
	if other.Source != "" {
		c.Source = other.Source
	}
	if other.APIBaseURL != "" {
		c.APIBaseURL = other.APIBaseURL
	}
	if other.GraphQLURL != "" {
		c.GraphQLURL = other.GraphQLURL
	}
	if other.PerPage != 0 {
		c.PerPage = other.PerPage
	}
	if other.FeaturedLimit != 0 {
		c.FeaturedLimit = other.FeaturedLimit
	}
	if other.WaitSecondaryRateLimit {
		c.WaitSecondaryRateLimit = true
	}
	if len(other.LanguageImages) > 0 {
		c.LanguageImages = other.LanguageImages
	}
	if other.DefaultImage != "" {
		c.DefaultImage = other.DefaultImage
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Handle == "" {
		return errors.New("handle must not be empty")
	}
	if c.PerPage < 1 || c.PerPage > DefaultPerPage {
		return errors.Errorf("per_page must be between 1 and %d, got %d", DefaultPerPage, c.PerPage)
	}
	if c.FeaturedLimit < 1 {
		return errors.Errorf("featured_limit must be positive, got %d", c.FeaturedLimit)
	}
	switch c.Source {
	case SourceREST:
	case SourceGraphQL:
		if c.Token == "" {
			return errors.New("source graphql requires GITHUB_TOKEN")
		}
	default:
		return errors.Errorf("unknown source %q (want %q or %q)", c.Source, SourceREST, SourceGraphQL)
	}
	return nil
}
