package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfig writes content to a versedeck.yaml in a temp dir.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "versedeck.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Output.Format != FormatPPTX {
		t.Errorf("Output.Format = %q, want %q", cfg.Output.Format, FormatPPTX)
	}
	if cfg.PDF.Enabled {
		t.Error("PDF.Enabled = true, want false")
	}
	if cfg.Upload.Enabled {
		t.Error("Upload.Enabled = true, want false")
	}
	if cfg.Layout.MaxChars != 0 {
		t.Errorf("Layout.MaxChars = %d, want 0 (library default)", cfg.Layout.MaxChars)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestConfig_Validate - Field limits and enumerated values
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
		wantMsg string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "html format", mutate: func(c *Config) { c.Output.Format = FormatHTML }},
		{name: "every pdf option", mutate: func(c *Config) {
			c.PDF = PDFConfig{Enabled: true, Backend: "libreoffice", Quality: "max", Pages: "1-3,5", Compliance: "pdfa-2b", Timeout: "90s"}
		}},
		{name: "numeric quality", mutate: func(c *Config) { c.PDF.Quality = "42" }},
		{name: "negative max chars", mutate: func(c *Config) { c.Layout.MaxChars = -1 }, wantErr: ErrInvalidValue, wantMsg: "layout.maxChars"},
		{name: "huge max chars", mutate: func(c *Config) { c.Layout.MaxChars = MaxCharsLimit + 1 }, wantErr: ErrInvalidValue},
		{name: "unknown format", mutate: func(c *Config) { c.Output.Format = "key" }, wantErr: ErrInvalidValue, wantMsg: "output.format"},
		{name: "unknown pdf backend", mutate: func(c *Config) { c.PDF.Backend = "wkhtmltopdf" }, wantErr: ErrInvalidValue, wantMsg: "pdf.backend"},
		{name: "bad quality", mutate: func(c *Config) { c.PDF.Quality = "ultra" }, wantErr: ErrInvalidValue, wantMsg: "pdf.quality"},
		{name: "bad compliance", mutate: func(c *Config) { c.PDF.Compliance = "pdfa-9" }, wantErr: ErrInvalidValue, wantMsg: "pdf.compliance"},
		{name: "bad pages", mutate: func(c *Config) { c.PDF.Pages = "one-three" }, wantErr: ErrInvalidValue, wantMsg: "pdf.pages"},
		{name: "bad timeout", mutate: func(c *Config) { c.PDF.Timeout = "soon" }, wantErr: ErrInvalidValue, wantMsg: "pdf.timeout"},
		{name: "negative timeout", mutate: func(c *Config) { c.PDF.Timeout = "-5s" }, wantErr: ErrInvalidValue},
		{name: "unknown upload backend", mutate: func(c *Config) { c.Upload.Backend = "dropbox" }, wantErr: ErrInvalidValue, wantMsg: "upload.backend"},
		{name: "unknown log level", mutate: func(c *Config) { c.Log.Level = "trace" }, wantErr: ErrInvalidValue, wantMsg: "log.level"},
		{name: "log level any case", mutate: func(c *Config) { c.Log.Level = "DEBUG" }},
		{name: "unknown log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: ErrInvalidValue, wantMsg: "log.format"},
		{name: "base name too long", mutate: func(c *Config) { c.Layout.DefaultBaseName = strings.Repeat("a", MaxBaseNameLength+1) }, wantErr: ErrFieldTooLong, wantMsg: "layout.defaultBaseName"},
		{name: "folder name too long", mutate: func(c *Config) { c.Upload.FolderName = strings.Repeat("f", MaxNameLength+1) }, wantErr: ErrFieldTooLong, wantMsg: "upload.folderName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not name %q", err, tt.wantMsg)
			}
		})
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	if err := validateFieldLength("f", "1234567890", 10); err != nil {
		t.Errorf("value at limit: error = %v", err)
	}
	err := validateFieldLength("style", "12345678901", 10)
	if !errors.Is(err, ErrFieldTooLong) {
		t.Fatalf("error = %v, want ErrFieldTooLong", err)
	}
	if !strings.Contains(err.Error(), "11 chars, max 10") {
		t.Errorf("error %q lacks sizes", err)
	}
}

func TestPDFConfig_TimeoutDuration(t *testing.T) {
	t.Parallel()

	if d, err := (PDFConfig{}).TimeoutDuration(); err != nil || d != 0 {
		t.Errorf("empty: %v, %v", d, err)
	}
	if d, err := (PDFConfig{Timeout: "2m30s"}).TimeoutDuration(); err != nil || d.Seconds() != 150 {
		t.Errorf("2m30s: %v, %v", d, err)
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig - Reading and resolving config files
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("full file", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `layout:
  maxChars: 150
  defaultBaseName: sermon
output:
  defaultDir: out
  format: html
style: dark
pdf:
  enabled: true
  backend: native
  quality: medium
  pages: "2-4"
upload:
  enabled: true
  backend: s3
  credentials: s3.env
  folderName: easter
log:
  level: debug
  format: json
`)
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Layout.MaxChars != 150 || cfg.Layout.DefaultBaseName != "sermon" {
			t.Errorf("Layout = %+v", cfg.Layout)
		}
		if cfg.Output.Format != FormatHTML || cfg.Style != "dark" {
			t.Errorf("Output = %+v, Style = %q", cfg.Output, cfg.Style)
		}
		if !cfg.PDF.Enabled || cfg.PDF.Backend != "native" || cfg.PDF.Pages != "2-4" {
			t.Errorf("PDF = %+v", cfg.PDF)
		}
		if !cfg.Upload.Enabled || cfg.Upload.Backend != "s3" || cfg.Upload.FolderName != "easter" {
			t.Errorf("Upload = %+v", cfg.Upload)
		}
		if cfg.Log.Format != "json" {
			t.Errorf("Log = %+v", cfg.Log)
		}
	})

	t.Run("absent fields keep defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfig(writeConfig(t, "style: dark\n"))
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Output.Format != FormatPPTX || cfg.PDF.Backend != "auto" {
			t.Errorf("defaults lost: %+v / %+v", cfg.Output, cfg.PDF)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("/nonexistent/path/versedeck.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(writeConfig(t, "style: [unclosed"))
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(writeConfig(t, "pdf:\n  password: secret\n"))
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value fails validation", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(writeConfig(t, "output:\n  format: keynote\n"))
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})
}

// Not parallel: changes the working directory.
func TestLoadConfig_ByName(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "church.yml"), []byte("style: dark\n"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadConfig("church")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Style != "dark" {
		t.Errorf("Style = %q, want dark", cfg.Style)
	}

	_, err = LoadConfig("missing")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("error = %v, want ErrConfigNotFound", err)
	}
	if !strings.Contains(err.Error(), "missing.yaml") || !strings.Contains(err.Error(), "missing.yml") {
		t.Errorf("error %q does not list tried paths", err)
	}
}
