// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-versedeck/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// inCI reports whether a common CI variable is set.
func inCI() bool {
	return os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	if (inCI() || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForPDFBackend returns hints when no PDF backend could run.
// The native backend needs nothing installed, so it is always offered.
func ForPDFBackend() string {
	var hints []string
	if os.Getenv("VERSEDECK_SOFFICE") == "" {
		hints = append(hints, "install LibreOffice or set VERSEDECK_SOFFICE")
	}
	hints = append(hints, "use --pdf-backend native for a dependency-free PDF")
	return formatHints(hints)
}

// ForCompliance returns a hint for PDF/A requests on a backend without support.
func ForCompliance() string {
	return format("PDF/A output needs --pdf-backend libreoffice")
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large decks or slow networks, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepathSlash(p), "/versedeck/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForExampleNotFound lists bundled examples.
func ForExampleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("run 'versedeck examples'; available: " + strings.Join(available, ", "))
}

// ForSchema points at the bundled examples for the expected document shape.
func ForSchema() string {
	return format("each verse needs 'reference' and 'text'; see 'versedeck examples'")
}

// ForCredentials returns hints for upload credential errors.
func ForCredentials(backend string) string {
	switch backend {
	case "gdrive":
		return format("pass a service-account JSON key with --credentials or set GOOGLE_APPLICATION_CREDENTIALS")
	case "s3":
		return format("pass a dotenv file defining VERSEDECK_S3_ENDPOINT, VERSEDECK_S3_ACCESS_KEY and VERSEDECK_S3_SECRET_KEY")
	default:
		return format("pass --credentials with a Drive service-account key or an S3 dotenv file")
	}
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}

func filepathSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
