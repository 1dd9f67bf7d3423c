package versedeck

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-versedeck/internal/assets"
	"github.com/alnah/go-versedeck/internal/yamlutil"
)

// Input syntaxes.
const (
	syntaxJSON = "json"
	syntaxYAML = "yaml"
)

// stdinSource names in-memory input in error messages.
const stdinSource = "<input>"

// Load reads and validates a verse document from a JSON or YAML file.
// Returns *NotFoundError if the file does not exist, *FormatError if it is
// not valid syntax, and *SchemaError if required fields are missing.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is user-provided input
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: absPath(path), Err: err}
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return LoadBytes(data, path)
}

// LoadBytes parses a verse document from memory.
// name selects the syntax by extension (.json, .yaml, .yml); any other name,
// including "", sniffs the content instead.
func LoadBytes(data []byte, name string) (*Document, error) {
	source := name
	if source == "" {
		source = stdinSource
	}

	root, err := parseSyntax(data, name, source)
	if err != nil {
		return nil, err
	}

	m, ok := toStringMap(root)
	if !ok {
		return nil, &SchemaError{Section: -1, Verse: -1, Reason: "document root must be a mapping"}
	}
	return LoadFromMap(m)
}

// LoadFromMap validates an already-decoded document, bypassing file I/O.
// Values follow encoding/json or YAML decoding conventions: strings, lists
// as []any, mappings as map[string]any, and numeric sizes.
func LoadFromMap(m map[string]any) (*Document, error) {
	if m == nil {
		return nil, &SchemaError{Section: -1, Verse: -1, Reason: "document root must be a mapping"}
	}

	raw, err := decodeDocument(m)
	if err != nil {
		return nil, err
	}
	if err := validateDocument(raw); err != nil {
		return nil, err
	}
	return raw.toDocument(), nil
}

// LoadExample loads a bundled example document by name.
// A name without extension matches the first of .json, .yaml and .yml.
func LoadExample(name string) (*Document, error) {
	if filepath.Ext(name) == "" {
		name = exampleFile(name)
	}
	data, err := assets.LoadExample(name)
	if err != nil {
		if errors.Is(err, assets.ErrExampleNotFound) || errors.Is(err, assets.ErrInvalidAssetName) {
			return nil, &NotFoundError{Path: "example " + name, Err: err}
		}
		return nil, err
	}
	return LoadBytes(data, name)
}

// exampleFile resolves an extensionless example name, defaulting to .json.
func exampleFile(base string) string {
	for _, name := range assets.ListExamples() {
		if strings.TrimSuffix(name, filepath.Ext(name)) == base {
			return name
		}
	}
	return base + ".json"
}

// ListExamples returns the names of the bundled examples, sorted.
func ListExamples() []string {
	return assets.ListExamples()
}

// parseSyntax decodes data into a generic tree.
// A known extension is strict; otherwise both syntaxes are tried, JSON first
// when the content looks like JSON.
func parseSyntax(data []byte, name, source string) (any, error) {
	order, label := syntaxOrder(data, name)

	var firstErr error
	for _, syn := range order {
		v, err := decodeSyntax(data, syn)
		if err == nil {
			return v, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, &FormatError{Source: source, Format: label, Err: firstErr}
}

func syntaxOrder(data []byte, name string) ([]string, string) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return []string{syntaxJSON}, syntaxJSON
	case ".yaml", ".yml":
		return []string{syntaxYAML}, syntaxYAML
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return []string{syntaxJSON, syntaxYAML}, "json/yaml"
	}
	return []string{syntaxYAML, syntaxJSON}, "json/yaml"
}

func decodeSyntax(data []byte, syn string) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty document")
	}

	var v any
	switch syn {
	case syntaxJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			return nil, errors.New("unexpected data after top-level value")
		}
	case syntaxYAML:
		if err := yamlutil.Unmarshal(data, &v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
