package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/zalepa/valdata/dataset"
	"github.com/zalepa/valdata/document"
	"github.com/zalepa/valdata/extract"
)

// Config holds the settings shared by all subcommands. Flags override it.
type Config struct {
	DataDir        string   `yaml:"data_dir"         env:"VALDATA_DATA_DIR"         env-default:"data/xml_filer"`
	OutputDir      string   `yaml:"output_dir"       env:"VALDATA_OUTPUT_DIR"       env-default:"data/resultat"`
	Stage          string   `yaml:"stage"            env:"VALDATA_STAGE"            env-default:"prelresultat"`
	Years          []int    `yaml:"years"            env:"VALDATA_YEARS"            env-default:"2006,2010,2014,2018"`
	Types          []string `yaml:"types"            env:"VALDATA_TYPES"            env-default:"K,L,R"`
	IncludeMinor   bool     `yaml:"include_minor"    env:"VALDATA_INCLUDE_MINOR"`
	ReviseFromNext bool     `yaml:"revise_from_next" env:"VALDATA_REVISE_FROM_NEXT" env-default:"false"`
	CorrectionsDir string   `yaml:"corrections_dir"  env:"VALDATA_CORRECTIONS_DIR"`
	SQLitePath     string   `yaml:"sqlite_path"      env:"VALDATA_SQLITE_PATH"`
	LogLevel       string   `yaml:"log_level"        env:"VALDATA_LOG_LEVEL"        env-default:"warn"`
}

// Load reads path (if it exists) and the environment, after loading a .env
// file from the working directory when one is present. Priority: ENV > YAML
// > defaults. An empty path reads the environment only.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: .env: %w", err)
	}

	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks the values that the builder would otherwise reject late.
func (c *Config) Validate() error {
	if _, err := document.ParseCountStage(c.Stage); err != nil {
		return err
	}
	if len(c.Years) < 2 {
		return fmt.Errorf("years: need at least two cycles, got %v", c.Years)
	}
	if _, err := c.ElectionTypes(); err != nil {
		return err
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: unknown level %q", c.LogLevel)
	}
	return nil
}

// ElectionTypes parses Types.
func (c *Config) ElectionTypes() ([]document.ElectionType, error) {
	out := make([]document.ElectionType, 0, len(c.Types))
	for _, s := range c.Types {
		t, err := document.ParseElectionType(s)
		if err != nil {
			return nil, fmt.Errorf("types: %w", err)
		}
		out = append(out, t)
	}
	return out, nil
}

// Dataset returns the builder configuration.
func (c *Config) Dataset() dataset.Config {
	stage, _ := document.ParseCountStage(c.Stage)
	return dataset.Config{
		Years:          c.Years,
		CurrentStage:   stage,
		ExcludeMinor:   !c.IncludeMinor,
		ReviseFromNext: c.ReviseFromNext,
		Aliases:        extract.DefaultAliases,
		Labels:         dataset.DefaultLabels,
	}
}

// Logger returns a text logger on stderr at LogLevel.
func (c *Config) Logger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
