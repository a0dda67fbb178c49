package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pankajredekar/catalogseed/internal/export"
	"github.com/pankajredekar/catalogseed/internal/generator"
	"github.com/pankajredekar/catalogseed/internal/runlog"
	"github.com/pankajredekar/catalogseed/internal/writer"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "catalogseed.yml"

// EnvPrefix prefixes the environment variables that override config keys.
const EnvPrefix = "CATALOGSEED"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds the settings of a seeding run
type Config struct {
	DatabaseURL        string `yaml:"database_url"`
	Categories         int    `yaml:"categories"`
	Items              int    `yaml:"items"`
	Seed               int64  `yaml:"seed"` // 0 picks a time-based seed
	CategoryBatchSize  int    `yaml:"category_batch_size"`
	ItemBatchSize      int    `yaml:"item_batch_size"`
	MaxAttempts        int    `yaml:"max_attempts"`
	OutputDir          string `yaml:"output_dir"`
	CategorySample     int    `yaml:"category_sample"`
	ItemSample         int    `yaml:"item_sample"`
	LightPayloads      int    `yaml:"light_payloads"`
	HeavyPayloads      int    `yaml:"heavy_payloads"`
	ExportPersistedIDs bool   `yaml:"export_persisted_ids"`
	RecordRuns         bool   `yaml:"record_runs"`
	RunTable           string `yaml:"run_table"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Categories:        2000,
		Items:             100000,
		CategoryBatchSize: writer.DefaultCategoryBatchSize,
		ItemBatchSize:     writer.DefaultItemBatchSize,
		MaxAttempts:       generator.DefaultMaxAttempts,
		OutputDir:         ".",
		CategorySample:    export.DefaultCategorySample,
		ItemSample:        export.DefaultItemSample,
		LightPayloads:     export.DefaultLightPayloads,
		HeavyPayloads:     export.DefaultHeavyPayloads,
		RunTable:          runlog.DefaultTable,
	}
}

// LoadConfig reads a YAML config file on top of the defaults
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Resolve relative paths
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if !filepath.IsAbs(cfg.OutputDir) {
		cfg.OutputDir = filepath.Join(filepath.Dir(configPath), cfg.OutputDir)
	}

	return cfg, nil
}

// Load reads configPath, or DefaultPath when configPath is empty. A missing
// DefaultPath is not an error and yields Default(); an explicitly named file
// must exist.
func Load(configPath string) (*Config, error) {
	if configPath != "" {
		return LoadConfig(configPath)
	}
	if _, err := os.Stat(DefaultPath); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return LoadConfig(DefaultPath)
}

// BindEnv makes v read CATALOGSEED_* variables, with dots in nested keys
// mapped to underscores (logging.level reads CATALOGSEED_LOGGING_LEVEL).
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Apply overrides fields with values set in v, from flags or CATALOGSEED_*
// environment variables. DATABASE_URL is used when no database URL is set
// anywhere else.
func (c *Config) Apply(v *viper.Viper) {
	if v.IsSet("database_url") {
		c.DatabaseURL = v.GetString("database_url")
	}
	if v.IsSet("categories") {
		c.Categories = v.GetInt("categories")
	}
	if v.IsSet("items") {
		c.Items = v.GetInt("items")
	}
	if v.IsSet("seed") {
		c.Seed = v.GetInt64("seed")
	}
	if v.IsSet("category_batch_size") {
		c.CategoryBatchSize = v.GetInt("category_batch_size")
	}
	if v.IsSet("item_batch_size") {
		c.ItemBatchSize = v.GetInt("item_batch_size")
	}
	if v.IsSet("max_attempts") {
		c.MaxAttempts = v.GetInt("max_attempts")
	}
	if v.IsSet("output_dir") {
		c.OutputDir = v.GetString("output_dir")
	}
	if v.IsSet("category_sample") {
		c.CategorySample = v.GetInt("category_sample")
	}
	if v.IsSet("item_sample") {
		c.ItemSample = v.GetInt("item_sample")
	}
	if v.IsSet("light_payloads") {
		c.LightPayloads = v.GetInt("light_payloads")
	}
	if v.IsSet("heavy_payloads") {
		c.HeavyPayloads = v.GetInt("heavy_payloads")
	}
	if v.IsSet("export_persisted_ids") {
		c.ExportPersistedIDs = v.GetBool("export_persisted_ids")
	}
	if v.IsSet("record_runs") {
		c.RecordRuns = v.GetBool("record_runs")
	}
	if v.IsSet("run_table") {
		c.RunTable = v.GetString("run_table")
	}

	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
}

// Validate checks that the config describes a runnable seeding run
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("%w: database_url is required", ErrInvalid)
	}
	if c.Categories < 1 {
		return fmt.Errorf("%w: categories must be at least 1, got %d", ErrInvalid, c.Categories)
	}
	if c.Items < 0 {
		return fmt.Errorf("%w: items must not be negative, got %d", ErrInvalid, c.Items)
	}
	if c.CategoryBatchSize < 1 || c.ItemBatchSize < 1 {
		return fmt.Errorf("%w: batch sizes must be at least 1", ErrInvalid)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("%w: max_attempts must be at least 1, got %d", ErrInvalid, c.MaxAttempts)
	}
	if c.CategorySample < 0 || c.ItemSample < 0 || c.LightPayloads < 0 || c.HeavyPayloads < 0 {
		return fmt.Errorf("%w: fixture sizes must not be negative", ErrInvalid)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output_dir is required", ErrInvalid)
	}
	if c.RecordRuns && !runlog.ValidTable(c.RunTable) {
		return fmt.Errorf("%w: run_table %q is not a valid table name", ErrInvalid, c.RunTable)
	}
	return nil
}

// ExportOptions returns the fixture options c describes.
func (c *Config) ExportOptions() export.Options {
	return export.Options{
		CategorySample: c.CategorySample,
		ItemSample:     c.ItemSample,
		LightPayloads:  c.LightPayloads,
		HeavyPayloads:  c.HeavyPayloads,
		PersistedIDs:   c.ExportPersistedIDs,
	}
}
