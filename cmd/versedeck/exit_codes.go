package main

import (
	"errors"
	"os"

	"github.com/alnah/go-versedeck"
	"github.com/alnah/go-versedeck/internal/config"
	"github.com/alnah/go-versedeck/internal/logging"
)

// Exit codes for the versedeck CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess    = 0 // Deck written (and exported/uploaded when asked)
	ExitGeneral    = 1 // General/unexpected error
	ExitUsage      = 2 // Invalid flags, config, document format or schema
	ExitIO         = 3 // Input not found, permission denied
	ExitConversion = 4 // PDF export failed
	ExitUpload     = 5 // Upload failed
)

// exitCodeFor returns the appropriate exit code for an error.
// Conversion and upload are checked first: their causes often wrap I/O errors
// but the deck itself was written.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, versedeck.ErrUpload) {
		return ExitUpload
	}
	if errors.Is(err, versedeck.ErrConversion) {
		return ExitConversion
	}

	if errors.Is(err, versedeck.ErrNotFound) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, versedeck.ErrFormat) ||
		errors.Is(err, versedeck.ErrSchema) ||
		errors.Is(err, versedeck.ErrUnknownFormat) ||
		errors.Is(err, versedeck.ErrInvalidOptions) ||
		errors.Is(err, versedeck.ErrInvalidAssetPath) ||
		errors.Is(err, versedeck.ErrStyle) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, logging.ErrInvalidFormat) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
