package versedeck

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	nonstandard "github.com/go-playground/validator/v10/non-standard/validators"
)

// Input document keys.
const (
	keyTitle     = "presentation_title"
	keySubtitle  = "presentation_subtitle"
	keySections  = "sections"
	keySection   = "section"
	keyVerses    = "verses"
	keyReference = "reference"
	keyText      = "text"
	keyHighlight = "highlights"
	keyLarge     = "large_text"
)

// rawDocument mirrors the input schema before defaults are applied.
// The key tag names fields in validation errors.
type rawDocument struct {
	Title    *string      `key:"presentation_title"`
	Subtitle *string      `key:"presentation_subtitle"`
	Sections []rawSection `key:"sections" validate:"required,dive"`
}

// rawSection declares Verses first so verse errors are reported before
// section-level ones.
type rawSection struct {
	Verses []rawVerse `key:"verses" validate:"dive"`
	Name   *string    `key:"section" validate:"omitnil,notblank"`
}

type rawVerse struct {
	Reference  string         `key:"reference" validate:"required"`
	Text       string         `key:"text" validate:"required"`
	Highlights []string       `key:"highlights"`
	LargeText  map[string]int `key:"large_text" validate:"dive,gt=0"`
}

var (
	validatorOnce sync.Once
	docValidator  *validator.Validate

	// Matches namespaces like "rawDocument.sections[1].verses[0].text".
	namespacePattern = regexp.MustCompile(`^[^.]+\.sections(?:\[(\d+)\])?(?:\.verses\[(\d+)\])?\.?(.*)$`)
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("notblank", nonstandard.NotBlank)
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			return fld.Tag.Get("key")
		})
		docValidator = v
	})
	return docValidator
}

// validateDocument checks constraints and reports the first violation.
func validateDocument(raw *rawDocument) error {
	err := getValidator().Struct(raw)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validating document: %w", err)
	}
	return schemaErrorFrom(verrs[0])
}

// schemaErrorFrom maps a validator error onto section/verse indices.
func schemaErrorFrom(fe validator.FieldError) *SchemaError {
	se := &SchemaError{Section: -1, Verse: -1, Field: fe.Field()}

	if m := namespacePattern.FindStringSubmatch(fe.Namespace()); m != nil {
		if m[1] != "" {
			se.Section, _ = strconv.Atoi(m[1])
		}
		if m[2] != "" {
			se.Verse, _ = strconv.Atoi(m[2])
		}
		switch {
		case m[3] != "":
			se.Field = m[3]
		case m[1] == "":
			se.Field = keySections
		default:
			se.Field = ""
		}
	}

	switch fe.Tag() {
	case "required":
		se.Reason = "required field missing"
	case "notblank":
		se.Reason = "must not be blank"
	case "gt":
		se.Reason = fmt.Sprintf("must be a positive integer, got %v", fe.Value())
	default:
		se.Reason = fmt.Sprintf("failed %q constraint", fe.Tag())
	}
	return se
}

// decodeDocument walks a generic tree into rawDocument, reporting type
// mismatches with their location.
func decodeDocument(m map[string]any) (*rawDocument, error) {
	raw := &rawDocument{}

	var err error
	if raw.Title, err = optionalString(m, keyTitle, -1, -1); err != nil {
		return nil, err
	}
	if raw.Subtitle, err = optionalString(m, keySubtitle, -1, -1); err != nil {
		return nil, err
	}

	sectionsVal, present := m[keySections]
	if !present || sectionsVal == nil {
		return raw, nil
	}
	sections, ok := sectionsVal.([]any)
	if !ok {
		return nil, &SchemaError{Section: -1, Verse: -1, Field: keySections, Reason: "must be a list"}
	}

	raw.Sections = make([]rawSection, 0, len(sections))
	for i, sv := range sections {
		sm, ok := toStringMap(sv)
		if !ok {
			return nil, &SchemaError{Section: i, Verse: -1, Reason: "section must be a mapping"}
		}
		section, err := decodeSection(sm, i)
		if err != nil {
			return nil, err
		}
		raw.Sections = append(raw.Sections, section)
	}
	return raw, nil
}

func decodeSection(m map[string]any, si int) (rawSection, error) {
	var section rawSection

	var err error
	if section.Name, err = optionalString(m, keySection, si, -1); err != nil {
		return section, err
	}

	versesVal := m[keyVerses]
	if versesVal == nil {
		section.Verses = []rawVerse{}
		return section, nil
	}
	verses, ok := versesVal.([]any)
	if !ok {
		return section, &SchemaError{Section: si, Verse: -1, Field: keyVerses, Reason: "must be a list"}
	}

	section.Verses = make([]rawVerse, 0, len(verses))
	for vi, vv := range verses {
		vm, ok := toStringMap(vv)
		if !ok {
			return section, &SchemaError{Section: si, Verse: vi, Reason: "verse must be a mapping"}
		}
		verse, err := decodeVerse(vm, si, vi)
		if err != nil {
			return section, err
		}
		section.Verses = append(section.Verses, verse)
	}
	return section, nil
}

func decodeVerse(m map[string]any, si, vi int) (rawVerse, error) {
	var verse rawVerse

	ref, err := optionalString(m, keyReference, si, vi)
	if err != nil {
		return verse, err
	}
	if ref != nil {
		verse.Reference = *ref
	}

	text, err := optionalString(m, keyText, si, vi)
	if err != nil {
		return verse, err
	}
	if text != nil {
		verse.Text = *text
	}

	if hv := m[keyHighlight]; hv != nil {
		list, ok := hv.([]any)
		if !ok {
			return verse, &SchemaError{Section: si, Verse: vi, Field: keyHighlight, Reason: "must be a list of strings"}
		}
		for j, item := range list {
			s, ok := item.(string)
			if !ok {
				return verse, &SchemaError{
					Section: si, Verse: vi,
					Field:  fmt.Sprintf("%s[%d]", keyHighlight, j),
					Reason: "must be a string",
				}
			}
			verse.Highlights = append(verse.Highlights, s)
		}
	}

	if lv := m[keyLarge]; lv != nil {
		lm, ok := toStringMap(lv)
		if !ok {
			return verse, &SchemaError{Section: si, Verse: vi, Field: keyLarge, Reason: "must be a mapping of word to size"}
		}
		verse.LargeText = make(map[string]int, len(lm))
		for word, sizeVal := range lm {
			size, ok := toInt(sizeVal)
			if !ok {
				return verse, &SchemaError{
					Section: si, Verse: vi,
					Field:  fmt.Sprintf("%s[%s]", keyLarge, word),
					Reason: fmt.Sprintf("must be an integer, got %v", sizeVal),
				}
			}
			verse.LargeText[word] = size
		}
	}

	return verse, nil
}

// optionalString returns nil when key is absent or null.
func optionalString(m map[string]any, key string, si, vi int) (*string, error) {
	v, present := m[key]
	if !present || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, &SchemaError{Section: si, Verse: vi, Field: key, Reason: fmt.Sprintf("must be a string, got %T", v)}
	}
	return &s, nil
}

// toStringMap accepts both JSON-style and YAML-style mappings.
func toStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

// toInt accepts the integer representations produced by the JSON and YAML
// decoders. Floats must be integral.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), n >= math.MinInt32 && n <= math.MaxInt32
	case uint64:
		return int(n), n <= math.MaxInt32
	case float64:
		if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil || i < math.MinInt32 || i > math.MaxInt32 {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}

// toDocument applies defaults and copies into the public model.
func (r *rawDocument) toDocument() *Document {
	doc := &Document{
		Title:    DefaultTitle,
		Subtitle: DefaultSubtitle,
		Sections: make([]Section, 0, len(r.Sections)),
	}
	if r.Title != nil {
		doc.Title = *r.Title
	}
	if r.Subtitle != nil {
		doc.Subtitle = *r.Subtitle
	}

	for _, rs := range r.Sections {
		section := Section{Verses: make([]Verse, 0, len(rs.Verses))}
		if rs.Name != nil {
			section.Name = strings.TrimSpace(*rs.Name)
		}
		for _, rv := range rs.Verses {
			section.Verses = append(section.Verses, Verse{
				Reference:  rv.Reference,
				Text:       rv.Text,
				Highlights: rv.Highlights,
				LargeText:  rv.LargeText,
			})
		}
		doc.Sections = append(doc.Sections, section)
	}
	return doc
}
