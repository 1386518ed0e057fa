package app

import (
	"testing"

	"github.com/agentstation/tallycheck/pkg/constants"
)

// TestLoadConfig verifies basic config loading.
func TestLoadConfig(t *testing.T) {
	t.Setenv("TALLYCHECK_CONFIG", "")
	t.Setenv("LOG_FORMAT", "")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.ConfigFile != constants.DefaultSourcesFile {
		t.Errorf("ConfigFile = %s, want %s", config.ConfigFile, constants.DefaultSourcesFile)
	}
	if config.LogFormat != "auto" {
		t.Errorf("LogFormat = %s, want auto", config.LogFormat)
	}
	if config.LogOutput == "" {
		t.Error("LogOutput not set to default")
	}
}

// TestConfig_EnvironmentVariables verifies environment variable loading.
func TestConfig_EnvironmentVariables(t *testing.T) {
	t.Setenv(constants.EnvConfig, "/etc/tallycheck/burlington.toml")
	t.Setenv("TALLYCHECK_FORMAT", "yaml")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.ConfigFile != "/etc/tallycheck/burlington.toml" {
		t.Errorf("ConfigFile = %s", config.ConfigFile)
	}
	if config.Format != "yaml" {
		t.Errorf("Format = %s, want yaml", config.Format)
	}
	if config.EnvLogLevel != "debug" {
		t.Errorf("EnvLogLevel = %s, want debug", config.EnvLogLevel)
	}
	if config.LogLevel != "" {
		t.Errorf("LogLevel = %s, want empty until --log-level is parsed", config.LogLevel)
	}
}

// TestConfig_UpdateFromFlags verifies flags override loaded values.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{Format: "yaml", ConfigFile: "env.toml"}

	config.UpdateFromFlags(true, false, true, "", "", "")
	if !config.Verbose || !config.NoColor {
		t.Error("boolean flags not applied")
	}
	if config.Format != "yaml" || config.ConfigFile != "env.toml" {
		t.Error("empty flags must not clear env values")
	}

	config.UpdateFromFlags(false, true, false, "json", "error", "flag.toml")
	if config.Format != "json" {
		t.Errorf("Format = %s, want json", config.Format)
	}
	if config.LogLevel != "error" {
		t.Errorf("LogLevel = %s, want error", config.LogLevel)
	}
	if config.ConfigFile != "flag.toml" {
		t.Errorf("ConfigFile = %s, want flag.toml", config.ConfigFile)
	}
}
