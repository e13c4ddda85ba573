package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "Wissal-badri", cfg.Handle)
	assert.Equal(t, 100, cfg.PerPage)
	assert.Equal(t, 6, cfg.FeaturedLimit)
	assert.Equal(t, SourceREST, cfg.Source)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "tok")
	path := writeConfig(t, `
handle: octo
source: graphql
per_page: 50
featured_limit: 3
wait_secondary_rate_limit: true
language_images:
  Go: /img/go.png
default_image: /img/default.png
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "octo", cfg.Handle)
	assert.Equal(t, SourceGraphQL, cfg.Source)
	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, DefaultGraphQLURL, cfg.GraphQLURL)
	assert.Equal(t, 50, cfg.PerPage)
	assert.Equal(t, 3, cfg.FeaturedLimit)
	assert.True(t, cfg.WaitSecondaryRateLimit)
	assert.Equal(t, map[string]string{"Go": "/img/go.png"}, cfg.LanguageImages)
	assert.Equal(t, "/img/default.png", cfg.DefaultImage)
	assert.Equal(t, "tok", cfg.Token)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		content     string
		token       string
		errContains string
	}{
		{
			name:        "page size above the cap",
			content:     "per_page: 101\n",
			errContains: "per_page must be between 1 and 100",
		},
		{
			name:        "unknown source",
			content:     "source: soap\n",
			errContains: `unknown source "soap"`,
		},
		{
			name:        "graphql without token",
			content:     "source: graphql\n",
			errContains: "requires GITHUB_TOKEN",
		},
		{
			name:        "negative featured limit",
			content:     "featured_limit: -1\n",
			errContains: "featured_limit must be positive",
		},
		{
			name:        "invalid yaml",
			content:     "handle: [unterminated\n",
			errContains: "failed to parse config file",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("GITHUB_TOKEN", tc.token)

			_, err := Load(writeConfig(t, tc.content))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errContains)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
