// Package config loads the toolchain's own settings: runtime guards, CLI
// display preferences, and the step-debugger's defaults. It layers three
// sources the way the teacher's configuration loader does — built-in
// defaults, an optional TOML file, then environment variable overrides —
// using viper to manage the overlay instead of hand-rolling precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// Config holds the toolchain settings loaded from the TOML file and the
// environment. The `build`/`run` commands and the `mdebug` stepper do not
// read it.
type Config struct {
	// Runtime settings bound the interpreter loop.
	Runtime struct {
		MaxCallStackDepth int    `toml:"max_call_stack_depth"`
		MaxCycles         uint64 `toml:"max_cycles"`
		EnableTrace       bool   `toml:"enable_trace"`
	} `toml:"runtime"`

	// CLI settings control the build/run command surface.
	CLI struct {
		ColorOutput  bool   `toml:"color_output"`
		Debug        bool   `toml:"debug"`
		NumberFormat string `toml:"number_format"` // hex, dec
	} `toml:"cli"`

	// Debugger settings configure the interactive step-debugger.
	Debugger struct {
		HistorySize    int  `toml:"history_size"`
		AutoSaveBreaks bool `toml:"auto_save_breakpoints"`
		ShowRegisters  bool `toml:"show_registers"`
		ShowBacktrace  bool `toml:"show_backtrace"`
	} `toml:"debugger"`

	// Trace settings govern the optional execution trace file.
	Trace struct {
		OutputFile string `toml:"output_file"`
		MaxEntries int    `toml:"max_entries"`
	} `toml:"trace"`
}

// DefaultConfig returns a Config with the toolchain's built-in defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Runtime.MaxCallStackDepth = 4000
	cfg.Runtime.MaxCycles = 0 // 0 means unbounded
	cfg.Runtime.EnableTrace = false

	cfg.CLI.ColorOutput = true
	cfg.CLI.Debug = false
	cfg.CLI.NumberFormat = "dec"

	cfg.Debugger.HistorySize = 1000
	cfg.Debugger.AutoSaveBreaks = true
	cfg.Debugger.ShowRegisters = true
	cfg.Debugger.ShowBacktrace = true

	cfg.Trace.OutputFile = "trace.log"
	cfg.Trace.MaxEntries = 100000

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "mirage")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "mirage")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file, overlaid with
// any MIRAGE_-prefixed environment variables.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from path, merging built-in defaults, the
// TOML file at path (if it exists), and environment overrides, in that
// order of increasing precedence.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: stat %s: %w", path, err)
	}

	v := viper.New()
	v.SetEnvPrefix("mirage")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	applyEnvOverride(v, "runtime.max_call_stack_depth", func(val int) { cfg.Runtime.MaxCallStackDepth = val })
	applyEnvOverrideBool(v, "runtime.enable_trace", func(val bool) { cfg.Runtime.EnableTrace = val })
	applyEnvOverrideBool(v, "cli.color_output", func(val bool) { cfg.CLI.ColorOutput = val })
	applyEnvOverrideBool(v, "cli.debug", func(val bool) { cfg.CLI.Debug = val })

	return cfg, nil
}

func applyEnvOverride(v *viper.Viper, key string, set func(int)) {
	if v.IsSet(key) {
		set(v.GetInt(key))
	}
}

func applyEnvOverrideBool(v *viper.Viper, key string, set func(bool)) {
	if v.IsSet(key) {
		set(v.GetBool(key))
	}
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("config: creating directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("config: creating file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("config: encoding: %w", err)
	}
	return nil
}
