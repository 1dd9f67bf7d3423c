// Package config loads the versedeck.yaml configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/alnah/go-versedeck/internal/fileutil"
	"github.com/alnah/go-versedeck/internal/pdf"
	"github.com/alnah/go-versedeck/internal/upload"
	"github.com/alnah/go-versedeck/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// DirName is the directory searched under the user config directory.
const DirName = "versedeck"

// Field length limits.
const (
	MaxPathLength     = 4096
	MaxBaseNameLength = 100
	MaxNameLength     = 100 // style, backend and folder names
	MaxFolderIDLength = 200
	MaxRangeLength    = 200
)

// MaxCharsLimit bounds layout.maxChars; longer chunks cannot fit a slide.
const MaxCharsLimit = 5000

// Deck formats.
const (
	FormatPPTX = "pptx"
	FormatHTML = "html"
)

// Log settings.
var (
	LogLevels  = []string{"debug", "info", "warn", "error"}
	LogFormats = []string{"text", "json"}
)

// Config holds all configuration for deck generation.
type Config struct {
	Layout LayoutConfig `yaml:"layout"`
	Output OutputConfig `yaml:"output"`
	Style  string       `yaml:"style"` // HTML deck style name or CSS path
	Assets AssetsConfig `yaml:"assets"`
	PDF    PDFConfig    `yaml:"pdf"`
	Upload UploadConfig `yaml:"upload"`
	Log    LogConfig    `yaml:"log"`
}

// LayoutConfig controls verse segmentation and output naming.
type LayoutConfig struct {
	MaxChars        int    `yaml:"maxChars"`        // 0 = default (200)
	DefaultBaseName string `yaml:"defaultBaseName"` // empty = "presentation"
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = current directory
	Format     string `yaml:"format"`     // "pptx" (default) or "html"
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets
}

// PDFConfig defines PDF export options. The password is never read from
// the file; pass it by flag or environment.
type PDFConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Backend      string `yaml:"backend"`    // auto, libreoffice, chrome, chromedp, native
	Quality      string `yaml:"quality"`    // low, medium, high, max or 1-100
	Pages        string `yaml:"pages"`      // e.g. "1-3,5"
	Compliance   string `yaml:"compliance"` // none, pdfa-1b, pdfa-2b, pdfa-3b
	ExportHidden bool   `yaml:"exportHidden"`
	Timeout      string `yaml:"timeout"` // Go duration, e.g. "90s"
}

// UploadConfig defines upload options.
type UploadConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Backend     string `yaml:"backend"`     // auto, gdrive, s3
	Credentials string `yaml:"credentials"` // service-account JSON or S3 dotenv file
	FolderID    string `yaml:"folderId"`
	FolderName  string `yaml:"folderName"`
}

// LogConfig defines logging options.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
	File   string `yaml:"file"`   // empty = stderr
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"layout.defaultBaseName", c.Layout.DefaultBaseName, MaxBaseNameLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"style", c.Style, MaxPathLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"pdf.pages", c.PDF.Pages, MaxRangeLength},
		{"upload.credentials", c.Upload.Credentials, MaxPathLength},
		{"upload.folderId", c.Upload.FolderID, MaxFolderIDLength},
		{"upload.folderName", c.Upload.FolderName, MaxNameLength},
		{"log.file", c.Log.File, MaxPathLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	if c.Layout.MaxChars < 0 || c.Layout.MaxChars > MaxCharsLimit {
		return fmt.Errorf("%w: layout.maxChars: must be between 0 and %d, got %d", ErrInvalidValue, MaxCharsLimit, c.Layout.MaxChars)
	}
	if c.Output.Format != "" && c.Output.Format != FormatPPTX && c.Output.Format != FormatHTML {
		return fmt.Errorf("%w: output.format: %q (must be pptx or html)", ErrInvalidValue, c.Output.Format)
	}

	if err := c.PDF.validate(); err != nil {
		return err
	}
	if err := oneOf("upload.backend", c.Upload.Backend, upload.BackendNames); err != nil {
		return err
	}
	if err := oneOf("log.level", strings.ToLower(c.Log.Level), LogLevels); err != nil {
		return err
	}
	return oneOf("log.format", strings.ToLower(c.Log.Format), LogFormats)
}

func (p *PDFConfig) validate() error {
	if err := oneOf("pdf.backend", p.Backend, pdf.BackendNames); err != nil {
		return err
	}
	if p.Quality != "" {
		if _, err := pdf.ParseQuality(p.Quality); err != nil {
			return fmt.Errorf("%w: pdf.quality: %v", ErrInvalidValue, err)
		}
	}
	if p.Compliance != "" {
		if _, err := pdf.ParseCompliance(p.Compliance); err != nil {
			return fmt.Errorf("%w: pdf.compliance: %v", ErrInvalidValue, err)
		}
	}
	if p.Pages != "" {
		if err := (pdf.Options{SlideRange: p.Pages}).Validate(); err != nil {
			return fmt.Errorf("%w: pdf.pages: %v", ErrInvalidValue, err)
		}
	}
	if _, err := p.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// TimeoutDuration parses Timeout. Empty means zero (use the default).
func (p PDFConfig) TimeoutDuration() (time.Duration, error) {
	if p.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(p.Timeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: pdf.timeout: %q is not a positive duration", ErrInvalidValue, p.Timeout)
	}
	return d, nil
}

// oneOf accepts empty values and members of allowed.
func oneOf(field, value string, allowed []string) error {
	if value == "" || slices.Contains(allowed, value) {
		return nil
	}
	return fmt.Errorf("%w: %s: %q (must be one of %s)", ErrInvalidValue, field, value, strings.Join(allowed, ", "))
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given:
// a .pptx deck with no PDF and no upload.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Format: FormatPPTX},
		PDF:    PDFConfig{Backend: pdf.BackendAuto},
		Upload: UploadConfig{Backend: upload.BackendAuto},
		Log:    LogConfig{Level: "warn", Format: "text"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
//
// Fields absent from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/versedeck/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, DirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
