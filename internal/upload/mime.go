package upload

import (
	"path/filepath"
	"strings"
)

const defaultMIMEType = "application/octet-stream"

// mimeTypes covers the artifacts this tool produces or reads.
var mimeTypes = map[string]string{
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".ppt":  "application/vnd.ms-powerpoint",
	".pdf":  "application/pdf",
	".html": "text/html; charset=utf-8",
	".json": "application/json",
	".yaml": "application/yaml",
	".yml":  "application/yaml",
	".txt":  "text/plain",
}

// MIMEType returns the content type for path, by extension.
func MIMEType(path string) string {
	if t, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return t
	}
	return defaultMIMEType
}
