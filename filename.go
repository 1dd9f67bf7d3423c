package versedeck

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Suffix appended to bases derived from an input path.
const presentationSuffix = "_presentation"

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	unsafeChars   = regexp.MustCompile(`[^A-Za-z0-9_-]`)
	underscoreRun = regexp.MustCompile(`_+`)
	unsafeExt     = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// DeriveFilename returns a safe output filename.
//
// A non-empty customTitle is sanitized into the base name. Otherwise a
// non-empty inputPath contributes its base name plus "_presentation".
// Otherwise DefaultBaseName is used. The result never contains path
// separators or "..", and is never empty.
//
//	DeriveFilename("Why Delay?", "", ".pptx")         // "Why_Delay.pptx"
//	DeriveFilename("", "my_verses.json", ".pptx")     // "my_verses_presentation.pptx"
//	DeriveFilename("", "", ".pptx")                   // "presentation.pptx"
func DeriveFilename(customTitle, inputPath, ext string) string {
	return deriveFilename(customTitle, inputPath, ext, DefaultBaseName)
}

func deriveFilename(customTitle, inputPath, ext, defaultBase string) string {
	fallback := sanitizeBase(defaultBase)
	if fallback == "" {
		fallback = DefaultBaseName
	}

	base := ""
	switch {
	case customTitle != "":
		base = sanitizeBase(customTitle)
	case inputPath != "":
		stem := filepath.Base(inputPath)
		stem = strings.TrimSuffix(stem, filepath.Ext(stem))
		if s := sanitizeBase(stem); s != "" {
			base = s + presentationSuffix
		}
	}
	if base == "" {
		base = fallback
	}

	return base + normalizeExt(ext)
}

// sanitizeBase maps whitespace runs to "_", drops characters outside
// [A-Za-z0-9_-], collapses repeated "_" and trims "_" from both ends.
func sanitizeBase(s string) string {
	s = whitespaceRun.ReplaceAllString(s, "_")
	s = unsafeChars.ReplaceAllString(s, "")
	s = underscoreRun.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// normalizeExt returns ".ext" with only alphanumerics, or "" when nothing is left.
func normalizeExt(ext string) string {
	ext = unsafeExt.ReplaceAllString(ext, "")
	if ext == "" {
		return ""
	}
	return "." + ext
}
