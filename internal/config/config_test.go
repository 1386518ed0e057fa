package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/tallycheck/internal/config"
	"github.com/agentstation/tallycheck/internal/transport"
	"github.com/agentstation/tallycheck/pkg/constants"
	"github.com/agentstation/tallycheck/pkg/errors"
	"github.com/agentstation/tallycheck/pkg/ranking"
	"github.com/agentstation/tallycheck/pkg/sources"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadTOML(t *testing.T) {
	path := write(t, "data_sources.toml", `
[official]
web_url = "https://example.org/results.zip"
archive_member = "Reports/report.txt"

[community]
path = "page.html"

[aliases]
fold_case = true

[aliases.names]
Kiss = "Bob Kiss"
Wright = "Kurt Wright"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https://example.org/results.zip", cfg.Official.WebURL)
	assert.Equal(t, "Reports/report.txt", cfg.Official.ArchiveMember)
	assert.Equal(t, "page.html", cfg.Community.Path)
	assert.True(t, cfg.Aliases.FoldCase)
	assert.Equal(t, map[string]string{"Kiss": "Bob Kiss", "Wright": "Kurt Wright"}, cfg.Aliases.Names,
		"candidate names keep their case")

	fn, err := cfg.Aliases.Func()
	require.NoError(t, err)
	got, err := fn("KISS")
	require.NoError(t, err)
	assert.Equal(t, ranking.Candidate("Bob Kiss"), got)

	client := transport.New()
	official := cfg.Official.Build(sources.OfficialID, client)
	assert.IsType(t, &sources.ZipMember{}, official)
	assert.Equal(t, "https://example.org/results.zip!Reports/report.txt", official.String())

	community := cfg.Community.Build(sources.CommunityID, client)
	assert.IsType(t, &sources.File{}, community)
}

func TestLoadYAMLNames(t *testing.T) {
	path := write(t, "sources.yaml", `
official:
  path: report.txt
community:
  path: page.html
aliases:
  names:
    Montroll: Andy Montroll
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, map[string]string{"Montroll": "Andy Montroll"}, cfg.Aliases.Names)
}

func TestLoadLegacySections(t *testing.T) {
	path := write(t, "data_sources.toml", `
[raw_ballots]
web_url = "https://example.org/2009-results.zip"

[electowiki]
web_url = "`+constants.Burlington2009WidgetURL+`"

[aliases]
preset = "burlington-2009"
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https://example.org/2009-results.zip", cfg.Official.WebURL)
	assert.Equal(t, constants.Burlington2009ReportMember, cfg.Official.ArchiveMember)
	assert.Equal(t, constants.Burlington2009WidgetURL, cfg.Community.WebURL)

	fn, err := cfg.Aliases.Func()
	require.NoError(t, err)
	got, err := fn("Simpson")
	require.NoError(t, err)
	assert.Equal(t, ranking.Candidate("James Simpson"), got)
}

func TestLoadEnvOverride(t *testing.T) {
	path := write(t, "data_sources.toml", `
[official]
path = "report.txt"
[community]
path = "page.html"
[aliases]
identity = true
`)
	t.Setenv("TALLYCHECK_OFFICIAL_PATH", "/data/other.txt")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/other.txt", cfg.Official.Path)
}

func TestLoadErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	var cfgErr *errors.ConfigError
	require.ErrorAs(t, err, &cfgErr)

	_, err = config.Load(write(t, "broken.toml", "[official\npath = 1"))
	require.ErrorAs(t, err, &cfgErr)
}

func TestValidate(t *testing.T) {
	valid := func() config.Sources {
		return config.Sources{
			Official:  config.Source{Path: "report.txt"},
			Community: config.Source{WebURL: "https://example.org/wiki"},
			Aliases:   config.Aliases{Preset: "burlington-2009"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Sources)
		message string
	}{
		{"no official location", func(c *config.Sources) { c.Official = config.Source{} }, "one of path or web_url"},
		{"both locations", func(c *config.Sources) { c.Community.Path = "page.html" }, "mutually exclusive"},
		{"no alias origin", func(c *config.Sources) { c.Aliases = config.Aliases{} }, "exactly one of names, file or preset"},
		{"two alias origins", func(c *config.Sources) { c.Aliases.File = "aliases.yaml" }, "exactly one of names, file or preset"},
		{"identity with preset", func(c *config.Sources) { c.Aliases.Identity = true }, "identity cannot be combined"},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			var cfgErr *errors.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestAliasesFunc(t *testing.T) {
	t.Run("identity", func(t *testing.T) {
		fn, err := config.Aliases{Identity: true}.Func()
		require.NoError(t, err)
		got, err := fn("Anyone")
		require.NoError(t, err)
		assert.Equal(t, ranking.Candidate("Anyone"), got)
	})

	t.Run("file", func(t *testing.T) {
		path := write(t, "aliases.yaml", "Smith: Dan Smith\n")
		fn, err := config.Aliases{File: path}.Func()
		require.NoError(t, err)
		got, err := fn("Smith")
		require.NoError(t, err)
		assert.Equal(t, ranking.Candidate("Dan Smith"), got)
	})

	t.Run("unknown preset", func(t *testing.T) {
		_, err := config.Aliases{Preset: "nowhere"}.Func()
		var cfgErr *errors.ConfigError
		require.ErrorAs(t, err, &cfgErr)
	})
}
