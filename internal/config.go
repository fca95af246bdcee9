package internal

import (
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/mdbacklinks/internal/index"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Docs   DocsConfig        `yaml:"docs"`
	Sync   SyncConfig        `yaml:"sync"`
	Export ExportConfig      `yaml:"export"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Docs.Validate(); err != nil {
		return err
	}
	return c.Sync.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// DocsConfig holds the path to the document root.
type DocsConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the document root configuration.
func (c *DocsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SyncConfig controls how runs are performed.
//
// With Watch set the root is re-synchronised whenever a Markdown file
// changes, once no further change arrived for Debounce.
type SyncConfig struct {
	DryRun   bool          `yaml:"dry_run"`
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the sync configuration.
func (c *SyncConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Debounce, validation.Min(10*time.Millisecond), validation.Max(time.Minute)),
	)
}

// ExportConfig holds the optional SQLite graph export.
type ExportConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

// Enabled returns true when the graph is exported after each run.
func (c *ExportConfig) Enabled() bool {
	return c.SQLitePath != ""
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Sync: SyncConfig{
			Debounce: index.DefaultDebounce,
		},
	}
}
