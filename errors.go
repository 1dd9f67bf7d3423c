package versedeck

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for library operations.
// Every typed error below unwraps to exactly one of these.
var (
	ErrNotFound   = errors.New("not found")
	ErrFormat     = errors.New("invalid document format")
	ErrSchema     = errors.New("invalid document schema")
	ErrConversion = errors.New("PDF conversion failed")
	ErrUpload     = errors.New("upload failed")

	// Builder errors.
	ErrNilDocument      = errors.New("document cannot be nil")
	ErrUnknownFormat    = errors.New("unknown deck format")
	ErrRender           = errors.New("deck rendering failed")
	ErrInvalidOptions   = errors.New("invalid build options")
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrStyle            = errors.New("deck style cannot be loaded")
)

// NotFoundError reports a missing input document or example.
type NotFoundError struct {
	Path string // resolved path or example name
	Err  error  // underlying cause, may be nil
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: %s", ErrNotFound, e.Path)
}

func (e *NotFoundError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNotFound}
	}
	return []error{ErrNotFound, e.Err}
}

// FormatError reports a document that is not valid JSON or YAML.
type FormatError struct {
	Source string // file name or "<input>"
	Format string // "json", "yaml", or "json/yaml" when sniffed
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%v: %s (%s): %v", ErrFormat, e.Source, e.Format, e.Err)
}

func (e *FormatError) Unwrap() []error {
	return []error{ErrFormat, e.Err}
}

// SchemaError reports a missing or malformed field.
// Section and Verse are zero-based indices, -1 when not applicable.
type SchemaError struct {
	Section int
	Verse   int
	Field   string
	Reason  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrSchema, e.Location(), e.Reason)
}

// Location renders the offending field path, e.g. "sections[0].verses[2].text".
func (e *SchemaError) Location() string {
	var parts []string
	if e.Section >= 0 {
		parts = append(parts, fmt.Sprintf("sections[%d]", e.Section))
	}
	if e.Verse >= 0 {
		parts = append(parts, fmt.Sprintf("verses[%d]", e.Verse))
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	if len(parts) == 0 {
		return "document"
	}
	return strings.Join(parts, ".")
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// ConversionError reports a PDF backend that is unavailable or failed.
// The deck artifact produced before conversion is left in place.
type ConversionError struct {
	Backend string
	Err     error
}

func (e *ConversionError) Error() string {
	if e.Backend == "" {
		return fmt.Sprintf("%v: %v", ErrConversion, e.Err)
	}
	return fmt.Sprintf("%v (%s): %v", ErrConversion, e.Backend, e.Err)
}

func (e *ConversionError) Unwrap() []error {
	return []error{ErrConversion, e.Err}
}

// UploadError reports invalid credentials, a network failure, or a remote
// permission problem. Artifacts already written are left in place.
type UploadError struct {
	Backend string
	Path    string
	Err     error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("%v (%s): %s: %v", ErrUpload, e.Backend, e.Path, e.Err)
}

func (e *UploadError) Unwrap() []error {
	return []error{ErrUpload, e.Err}
}
