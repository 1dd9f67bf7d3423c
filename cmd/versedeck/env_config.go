package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-versedeck/internal/config"
	"github.com/alnah/go-versedeck/internal/pdf"
	"github.com/alnah/go-versedeck/internal/upload"
)

// envPrefix marks variables read by versedeck.
const envPrefix = "VERSEDECK_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string        // VERSEDECK_CONFIG: config file name or path
	Timeout    time.Duration // VERSEDECK_TIMEOUT: overall timeout
	OutputDir  string        // VERSEDECK_OUTPUT_DIR: default output directory
	Format     string        // VERSEDECK_FORMAT: pptx or html

	// Tier 2 - Layout and assets
	MaxChars  int    // VERSEDECK_MAX_CHARS: characters per verse slide
	Style     string // VERSEDECK_STYLE: HTML deck style
	AssetPath string // VERSEDECK_ASSET_PATH: custom asset directory

	// Tier 3 - PDF and upload
	PDFBackend    string // VERSEDECK_PDF_BACKEND
	PDFPassword   string // VERSEDECK_PDF_PASSWORD
	UploadBackend string // VERSEDECK_UPLOAD_BACKEND
	Credentials   string // VERSEDECK_CREDENTIALS: credentials file
	FolderID      string // VERSEDECK_FOLDER_ID
	FolderName    string // VERSEDECK_FOLDER_NAME

	// Tier 4 - Logging
	LogLevel  string // VERSEDECK_LOG_LEVEL
	LogFormat string // VERSEDECK_LOG_FORMAT
	LogFile   string // VERSEDECK_LOG_FILE
}

// knownEnvVars lists valid VERSEDECK_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"VERSEDECK_CONFIG":         true,
	"VERSEDECK_TIMEOUT":        true,
	"VERSEDECK_OUTPUT_DIR":     true,
	"VERSEDECK_FORMAT":         true,
	"VERSEDECK_MAX_CHARS":      true,
	"VERSEDECK_STYLE":          true,
	"VERSEDECK_ASSET_PATH":     true,
	"VERSEDECK_PDF_BACKEND":    true,
	"VERSEDECK_PDF_PASSWORD":   true,
	"VERSEDECK_UPLOAD_BACKEND": true,
	"VERSEDECK_CREDENTIALS":    true,
	"VERSEDECK_FOLDER_ID":      true,
	"VERSEDECK_FOLDER_NAME":    true,
	"VERSEDECK_LOG_LEVEL":      true,
	"VERSEDECK_LOG_FORMAT":     true,
	"VERSEDECK_LOG_FILE":       true,
	"VERSEDECK_CONTAINER":      true,
	// Read by backends
	pdf.SofficeEnv:        true,
	upload.S3EndpointKey:  true,
	upload.S3AccessKeyKey: true,
	upload.S3SecretKeyKey: true,
	upload.S3UseSSLKey:    true,
	upload.S3RegionKey:    true,
	upload.S3BucketKey:    true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are reported rather than ignored.
func loadEnvConfig(getenv func(string) string) (*envConfig, error) {
	cfg := &envConfig{
		ConfigPath:    getenv("VERSEDECK_CONFIG"),
		OutputDir:     getenv("VERSEDECK_OUTPUT_DIR"),
		Format:        strings.ToLower(getenv("VERSEDECK_FORMAT")),
		Style:         getenv("VERSEDECK_STYLE"),
		AssetPath:     getenv("VERSEDECK_ASSET_PATH"),
		PDFBackend:    getenv("VERSEDECK_PDF_BACKEND"),
		PDFPassword:   getenv("VERSEDECK_PDF_PASSWORD"),
		UploadBackend: getenv("VERSEDECK_UPLOAD_BACKEND"),
		Credentials:   getenv("VERSEDECK_CREDENTIALS"),
		FolderID:      getenv("VERSEDECK_FOLDER_ID"),
		FolderName:    getenv("VERSEDECK_FOLDER_NAME"),
		LogLevel:      getenv("VERSEDECK_LOG_LEVEL"),
		LogFormat:     getenv("VERSEDECK_LOG_FORMAT"),
		LogFile:       getenv("VERSEDECK_LOG_FILE"),
	}

	if timeout := getenv("VERSEDECK_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: VERSEDECK_TIMEOUT=%q is not a positive duration", ErrUsage, timeout)
		}
		cfg.Timeout = d
	}

	if maxChars := getenv("VERSEDECK_MAX_CHARS"); maxChars != "" {
		n, err := strconv.Atoi(maxChars)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: VERSEDECK_MAX_CHARS=%q is not a positive integer", ErrUsage, maxChars)
		}
		cfg.MaxChars = n
	}

	return cfg, nil
}

// warnUnknownEnvVars logs warnings for unrecognized VERSEDECK_* variables.
// Helps catch typos like VERSEDECK_STYEL instead of VERSEDECK_STYLE.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, env := range environ {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overlays set environment values on the file config.
// Precedence: defaults < config file < env vars < CLI flags
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setString(&cfg.Output.DefaultDir, env.OutputDir)
	setString(&cfg.Output.Format, env.Format)
	setString(&cfg.Style, env.Style)
	setString(&cfg.Assets.BasePath, env.AssetPath)
	if env.MaxChars > 0 {
		cfg.Layout.MaxChars = env.MaxChars
	}

	setString(&cfg.PDF.Backend, env.PDFBackend)
	if env.Timeout > 0 {
		cfg.PDF.Timeout = env.Timeout.String()
	}

	setString(&cfg.Upload.Backend, env.UploadBackend)
	setString(&cfg.Upload.Credentials, env.Credentials)
	setString(&cfg.Upload.FolderID, env.FolderID)
	setString(&cfg.Upload.FolderName, env.FolderName)

	setString(&cfg.Log.Level, env.LogLevel)
	setString(&cfg.Log.Format, env.LogFormat)
	setString(&cfg.Log.File, env.LogFile)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
