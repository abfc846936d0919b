package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration for the listing pipeline.
type Paths struct {
	// ImageRoot holds one subdirectory per item with its photo set and the
	// uploaded URL manifest.
	ImageRoot string `toml:"image_root" validate:"required"`
	// ResultsDir holds one <folder>.txt agent output per item.
	ResultsDir string `toml:"results_dir" validate:"required"`
	// WorkbookDir is where listing workbooks and the current-workbook pointer
	// live.
	WorkbookDir string `toml:"workbook_dir" validate:"required"`
	LogDir      string `toml:"log_dir" validate:"required"`
}

// Listing contains the constant listing-policy fields applied to every row,
// plus the approved condition enumeration used at join time.
type Listing struct {
	ApprovedConditionIDs []string `toml:"approved_condition_ids" validate:"min=1,dive,required"`
	CategoryID           string   `toml:"category_id" validate:"required"`
	CategoryName         string   `toml:"category_name" validate:"required"`
	Location             string   `toml:"location" validate:"required"`
	Quantity             int      `toml:"quantity" validate:"gt=0"`
	Format               string   `toml:"format" validate:"required"`
	Duration             string   `toml:"duration" validate:"required"`
	ShippingProfile      string   `toml:"shipping_profile" validate:"required"`
	ReturnProfile        string   `toml:"return_profile" validate:"required"`
	PaymentProfile       string   `toml:"payment_profile" validate:"required"`
	Language             string   `toml:"language" validate:"required"`
}

// Processing contains batch behavior settings.
type Processing struct {
	// ConflictPolicy decides what happens when a folder already has a row in
	// the target workbook: "skip" or "overwrite".
	ConflictPolicy string `toml:"conflict_policy" validate:"oneof=skip overwrite"`
	TitleLimit     int    `toml:"title_limit" validate:"gt=3"`
}

// Logging contains log output configuration.
type Logging struct {
	Format string `toml:"format" validate:"oneof=console json"`
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
}

// Config encapsulates all configuration values for bindery.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Listing    Listing    `toml:"listing"`
	Processing Processing `toml:"processing"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/bindery/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The BINDERY_CONFIG
// environment variable overrides the default search when no explicit path is
// given.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = strings.TrimSpace(os.Getenv("BINDERY_CONFIG"))
	}
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("bindery.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the pipeline writes to. The image
// and results roots are inputs produced by the upload and agent stages, so
// they are created too for first-run convenience.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ImageRoot, c.Paths.ResultsDir, c.Paths.WorkbookDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func (c *Config) normalize() error {
	paths := []*string{
		&c.Paths.ImageRoot,
		&c.Paths.ResultsDir,
		&c.Paths.WorkbookDir,
		&c.Paths.LogDir,
	}
	for _, p := range paths {
		expanded, err := expandPath(strings.TrimSpace(*p))
		if err != nil {
			return err
		}
		*p = expanded
	}

	c.Processing.ConflictPolicy = strings.ToLower(strings.TrimSpace(c.Processing.ConflictPolicy))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	for i, id := range c.Listing.ApprovedConditionIDs {
		c.Listing.ApprovedConditionIDs[i] = strings.TrimSpace(id)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
