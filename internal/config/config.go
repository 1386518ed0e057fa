// Package config reads data_sources.toml, the file that says where the two
// documents of an audit live and how community candidate names map to
// official ones.
//
//	[official]
//	web_url = "https://example.org/results.zip"
//	archive_member = "Reports/2009 Burlington Mayor Final Piles Report.txt"
//
//	[community]
//	web_url = "https://electowiki.org/wiki/..."
//
//	[aliases]
//	preset = "burlington-2009"
//
// The legacy section names [raw_ballots] and [electowiki] are accepted for
// [official] and [community].
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/agentstation/tallycheck/internal/transport"
	"github.com/agentstation/tallycheck/pkg/alias"
	"github.com/agentstation/tallycheck/pkg/constants"
	"github.com/agentstation/tallycheck/pkg/errors"
	"github.com/agentstation/tallycheck/pkg/sources"
)

// EnvPrefix prefixes environment overrides, e.g. TALLYCHECK_OFFICIAL_PATH.
const EnvPrefix = "TALLYCHECK"

// Source locates one document.
type Source struct {
	Path          string `mapstructure:"path" yaml:"path,omitempty"`
	WebURL        string `mapstructure:"web_url" yaml:"web_url,omitempty"`
	ArchiveMember string `mapstructure:"archive_member" yaml:"archive_member,omitempty"`
}

// IsZero reports whether no location was configured.
func (s Source) IsZero() bool {
	return s.Path == "" && s.WebURL == "" && s.ArchiveMember == ""
}

// Aliases selects the candidate name mapping.
type Aliases struct {
	Names    map[string]string `mapstructure:"names" yaml:"names,omitempty"`
	File     string            `mapstructure:"file" yaml:"file,omitempty"`
	Preset   string            `mapstructure:"preset" yaml:"preset,omitempty"`
	FoldCase bool              `mapstructure:"fold_case" yaml:"fold_case,omitempty"`
	Identity bool              `mapstructure:"identity" yaml:"identity,omitempty"`
}

// Sources is the decoded data source configuration.
type Sources struct {
	Official  Source  `mapstructure:"official" yaml:"official"`
	Community Source  `mapstructure:"community" yaml:"community"`
	Aliases   Aliases `mapstructure:"aliases" yaml:"aliases"`

	// legacy section names
	RawBallots Source `mapstructure:"raw_ballots" yaml:"-"`
	Electowiki Source `mapstructure:"electowiki" yaml:"-"`
}

// Load reads a data source file. TOML, YAML and JSON are accepted, chosen by
// extension.
func Load(path string) (*Sources, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.NewConfigError("data sources", "failed to read "+path, err)
	}

	var cfg Sources
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.NewConfigError("data sources", "failed to decode "+path, err)
	}
	if len(cfg.Aliases.Names) > 0 {
		names, err := readAliasNames(path)
		if err != nil {
			return nil, errors.NewConfigError("aliases", "failed to read names from "+path, err)
		}
		cfg.Aliases.Names = names
	}
	cfg.applyLegacy()
	return &cfg, nil
}

// aliasNamesFile mirrors the [aliases.names] table.
type aliasNamesFile struct {
	Aliases struct {
		Names map[string]string `toml:"names" yaml:"names" json:"names"`
	} `toml:"aliases" yaml:"aliases" json:"aliases"`
}

// readAliasNames decodes [aliases.names] again with the format's own
// decoder, because viper lowercases every key and candidate names are case
// sensitive.
func readAliasNames(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f aliasNamesFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &f)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	case ".json":
		err = json.Unmarshal(data, &f)
	default:
		return nil, errors.NewValidationError("config", path, "unsupported config extension")
	}
	if err != nil {
		return nil, err
	}
	return f.Aliases.Names, nil
}

// applyLegacy fills [official] and [community] from the legacy sections.
// The legacy raw ballots archive always held the Burlington report.
func (c *Sources) applyLegacy() {
	if c.Official.IsZero() && !c.RawBallots.IsZero() {
		c.Official = c.RawBallots
		if c.Official.ArchiveMember == "" {
			c.Official.ArchiveMember = constants.Burlington2009ReportMember
		}
	}
	if c.Community.IsZero() && !c.Electowiki.IsZero() {
		c.Community = c.Electowiki
	}
	c.RawBallots, c.Electowiki = Source{}, Source{}
}

// Validate checks that both sources and one alias origin are configured.
func (c *Sources) Validate() error {
	if err := c.Official.validate(sources.OfficialID); err != nil {
		return err
	}
	if err := c.Community.validate(sources.CommunityID); err != nil {
		return err
	}
	return c.Aliases.validate()
}

func (s Source) validate(id sources.ID) error {
	switch {
	case s.Path == "" && s.WebURL == "":
		return errors.NewConfigError(id.String(), "one of path or web_url is required", nil)
	case s.Path != "" && s.WebURL != "":
		return errors.NewConfigError(id.String(), "path and web_url are mutually exclusive", nil)
	}
	return nil
}

func (a Aliases) validate() error {
	origins := 0
	if len(a.Names) > 0 {
		origins++
	}
	if a.File != "" {
		origins++
	}
	if a.Preset != "" {
		origins++
	}
	switch {
	case a.Identity && origins > 0:
		return errors.NewConfigError("aliases", "identity cannot be combined with names, file or preset", nil)
	case !a.Identity && origins != 1:
		return errors.NewConfigError("aliases", "exactly one of names, file or preset is required", nil)
	}
	return nil
}

// Build creates the source for id. Web sources share client.
func (s Source) Build(id sources.ID, client *transport.Client) sources.Source {
	var src sources.Source
	if s.WebURL != "" {
		src = sources.NewHTTP(id, s.WebURL, client)
	} else {
		src = sources.NewFile(id, s.Path)
	}
	if s.ArchiveMember != "" {
		src = sources.NewZipMember(id, src, s.ArchiveMember)
	}
	return src
}

// Func builds the alias function.
func (a Aliases) Func() (alias.Func, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}
	opts := []alias.Option{alias.WithCaseFolding(a.FoldCase)}

	var (
		tbl *alias.Table
		err error
	)
	switch {
	case a.Identity:
		return alias.Identity, nil
	case len(a.Names) > 0:
		tbl, err = alias.NewTable(a.Names, opts...)
	case a.File != "":
		tbl, err = alias.LoadFile(a.File, opts...)
	default:
		tbl, err = alias.FromPreset(a.Preset, opts...)
	}
	if err != nil {
		return nil, errors.NewConfigError("aliases", "failed to build alias table", err)
	}
	return tbl.Func(), nil
}
