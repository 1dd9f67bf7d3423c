package main

// Notes:
// - exitCodeFor: we test sentinel errors from versedeck, config, logging and
//   the CLI, plus wrapped errors to verify the errors.Is() chain.
// - Upload and conversion failures win over the I/O causes they wrap.

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/alnah/go-versedeck"
	"github.com/alnah/go-versedeck/internal/config"
	"github.com/alnah/go-versedeck/internal/logging"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		// Success
		{"nil error", nil, ExitSuccess},

		// Upload errors (exit 5)
		{"upload sentinel", versedeck.ErrUpload, ExitUpload},
		{"upload error type", &versedeck.UploadError{Backend: "s3", Path: "a.pptx", Err: os.ErrPermission}, ExitUpload},

		// Conversion errors (exit 4)
		{"conversion sentinel", versedeck.ErrConversion, ExitConversion},
		{"conversion wrapping not-exist", &versedeck.ConversionError{Backend: "libreoffice", Err: os.ErrNotExist}, ExitConversion},

		// I/O errors (exit 3)
		{"document not found", &versedeck.NotFoundError{Path: "verses.json"}, ExitIO},
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"no input", ErrNoInput, ExitIO},
		{"wrapped file not exist", fmt.Errorf("reading: %w", os.ErrNotExist), ExitIO},

		// Usage/config/validation errors (exit 2)
		{"usage", ErrUsage, ExitUsage},
		{"format", &versedeck.FormatError{Source: "a.json", Format: "json", Err: errors.New("bad")}, ExitUsage},
		{"schema", &versedeck.SchemaError{Section: 0, Verse: 0, Field: "text", Reason: "required"}, ExitUsage},
		{"unknown format", versedeck.ErrUnknownFormat, ExitUsage},
		{"invalid options", versedeck.ErrInvalidOptions, ExitUsage},
		{"invalid asset path", versedeck.ErrInvalidAssetPath, ExitUsage},
		{"style", versedeck.ErrStyle, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"empty config name", config.ErrEmptyConfigName, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"invalid value", config.ErrInvalidValue, ExitUsage},
		{"log format", logging.ErrInvalidFormat, ExitUsage},
		{"unsupported shell", ErrUnsupportedShell, ExitUsage},
		{"wrapped config parse", fmt.Errorf("loading: %w", config.ErrConfigParse), ExitUsage},

		// General errors (exit 1)
		{"unknown error", errors.New("something unexpected"), ExitGeneral},
		{"wrapped unknown", fmt.Errorf("context: %w", errors.New("unknown")), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := exitCodeFor(tt.err)
			if got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExitCodeConstants - Unix conventions
// ---------------------------------------------------------------------------

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()

	if ExitSuccess != 0 || ExitGeneral != 1 || ExitUsage != 2 {
		t.Errorf("standard codes changed: success=%d general=%d usage=%d", ExitSuccess, ExitGeneral, ExitUsage)
	}

	seen := map[int]string{}
	for name, code := range map[string]int{
		"ExitSuccess": ExitSuccess, "ExitGeneral": ExitGeneral, "ExitUsage": ExitUsage,
		"ExitIO": ExitIO, "ExitConversion": ExitConversion, "ExitUpload": ExitUpload,
	} {
		if code >= 126 {
			t.Errorf("%s = %d, must be below 126", name, code)
		}
		if other, ok := seen[code]; ok {
			t.Errorf("%s and %s share code %d", name, other, code)
		}
		seen[code] = name
	}
}
