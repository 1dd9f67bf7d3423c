package pdf

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alnah/go-versedeck/internal/fileutil"
	"github.com/alnah/go-versedeck/internal/process"
)

// SofficeEnv names the environment variable overriding soffice discovery.
const SofficeEnv = "VERSEDECK_SOFFICE"

// Binary names and install locations searched for soffice.
var (
	sofficeNames = []string{"soffice", "libreoffice"}
	sofficePaths = []string{
		"/Applications/LibreOffice.app/Contents/MacOS/soffice",
		`C:\Program Files\LibreOffice\program\soffice.exe`,
	}
)

// pdfVersions maps compliance modes to LibreOffice SelectPdfVersion values.
var pdfVersions = map[string]int{
	CompliancePDFA1: 1,
	CompliancePDFA2: 2,
	CompliancePDFA3: 3,
}

// LibreOffice converts .pptx decks with a headless soffice subprocess.
type LibreOffice struct {
	Runner   process.Runner
	Bin      string // empty means discover on first use
	lookPath func(string) (string, error)
	getenv   func(string) string
}

// NewLibreOffice creates a LibreOffice backend using a real command runner.
func NewLibreOffice() *LibreOffice {
	return &LibreOffice{Runner: &process.ExecRunner{}}
}

// Name implements Backend.
func (l *LibreOffice) Name() string { return BackendLibreOffice }

// Features implements Backend.
func (l *LibreOffice) Features() Features {
	return Features{SlideRange: true, Password: true, Compliance: true}
}

// Probe implements Backend.
func (l *LibreOffice) Probe() Status {
	bin, err := l.binary()
	if err != nil {
		return Status{Name: l.Name(), Detail: err.Error()}
	}
	return Status{Name: l.Name(), Available: true, Detail: bin}
}

func (l *LibreOffice) binary() (string, error) {
	if l.Bin != "" {
		return l.Bin, nil
	}
	getenv := l.getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	lookPath := l.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	if bin := getenv(SofficeEnv); bin != "" {
		return bin, nil
	}
	for _, name := range sofficeNames {
		if p, err := lookPath(name); err == nil {
			return p, nil
		}
	}
	for _, p := range sofficePaths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("soffice not found in PATH (set %s)", SofficeEnv)
}

// Convert implements Backend.
func (l *LibreOffice) Convert(ctx context.Context, req *Request, outPath string) error {
	if !strings.EqualFold(filepath.Ext(req.DeckPath), ".pptx") {
		return fmt.Errorf("%w: libreoffice needs a .pptx deck, got %q", ErrUnsupportedInput, filepath.Ext(req.DeckPath))
	}
	bin, err := l.binary()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	deckPath, err := filepath.Abs(req.DeckPath)
	if err != nil {
		return fmt.Errorf("resolving deck path: %w", err)
	}

	workDir, err := os.MkdirTemp("", "versedeck-soffice-*")
	if err != nil {
		return fmt.Errorf("creating work directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	filter, err := filterOptions(req.Options)
	if err != nil {
		return err
	}
	args := []string{
		"-env:UserInstallation=" + fileURL(filepath.Join(workDir, "profile")),
		"--headless",
		"--invisible",
		"--nologo",
		"--norestore",
		"--nolockcheck",
		"--convert-to", "pdf:impress_pdf_Export:" + filter,
		"--outdir", workDir,
		deckPath,
	}

	_, stderr, err := l.Runner.Run(ctx, bin, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v: %s", ErrPDFGeneration, err, strings.TrimSpace(stderr))
	}

	produced := filepath.Join(workDir, strings.TrimSuffix(filepath.Base(deckPath), filepath.Ext(deckPath))+".pdf")
	if !fileutil.FileExists(produced) {
		return fmt.Errorf("%w: soffice wrote no output: %s", ErrEmptyOutput, strings.TrimSpace(stderr))
	}
	return copyFile(produced, outPath)
}

// filterValue is one typed entry of LibreOffice's JSON filter options.
type filterValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// filterOptions builds the impress_pdf_Export options for opts.
func filterOptions(opts Options) (string, error) {
	f := map[string]filterValue{
		"Quality":            {Type: "long", Value: strconv.Itoa(opts.Quality)},
		"ExportHiddenSlides": {Type: "boolean", Value: strconv.FormatBool(opts.ExportHidden)},
	}
	if opts.SlideRange != "" {
		f["PageRange"] = filterValue{Type: "string", Value: opts.SlideRange}
	}
	if opts.Password != "" {
		f["EncryptFile"] = filterValue{Type: "boolean", Value: "true"}
		f["DocumentOpenPassword"] = filterValue{Type: "string", Value: opts.Password}
	}
	if v, ok := pdfVersions[opts.Compliance]; ok {
		f["SelectPdfVersion"] = filterValue{Type: "long", Value: strconv.Itoa(v)}
	}

	data, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("encoding filter options: %w", err)
	}
	return string(data), nil
}

// fileURL returns a file:// URL for an absolute path.
func fileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- path produced by soffice in our work directory
	if err != nil {
		return fmt.Errorf("opening PDF: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst) // #nosec G304 -- destination chosen by the converter
	if err != nil {
		return fmt.Errorf("creating PDF: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copying PDF: %w", err)
	}
	return out.Close()
}

// Compile-time interface check.
var _ Backend = (*LibreOffice)(nil)
