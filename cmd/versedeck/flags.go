package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	logFormat string
	logFile   string
}

// inputFlags selects the document and the deck written from it.
type inputFlags struct {
	output   string
	title    string
	example  string
	format   string
	maxChars int
}

// pdfFlags holds PDF export flags.
type pdfFlags struct {
	enabled    bool
	backend    string
	quality    string
	pages      string
	password   string
	compliance string
	hidden     bool
}

// uploadFlags holds upload flags.
type uploadFlags struct {
	enabled     bool
	backend     string
	credentials string
	folderID    string
	folderName  string
}

// assetFlags holds asset-related flags.
type assetFlags struct {
	style     string
	assetPath string
}

// buildFlags holds all flags for the build command.
type buildFlags struct {
	common  commonFlags
	input   inputFlags
	pdf     pdfFlags
	upload  uploadFlags
	assets  assetFlags
	timeout string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: text, json")
	fs.StringVar(&f.logFile, "log-file", "", "write logs to a rotated file")
}

// addInputFlags adds document and deck flags to a FlagSet.
func addInputFlags(fs *flag.FlagSet, f *inputFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVarP(&f.title, "title", "t", "", "custom title (hides section slides)")
	fs.StringVarP(&f.example, "example", "e", "", "use a bundled example document")
	fs.StringVar(&f.format, "format", "", "deck format: pptx, html")
	fs.IntVar(&f.maxChars, "max-chars", 0, "max characters per verse slide (default 200)")
}

// addPDFFlags adds PDF export flags to a FlagSet.
func addPDFFlags(fs *flag.FlagSet, f *pdfFlags) {
	fs.BoolVar(&f.enabled, "pdf", false, "also export a PDF")
	fs.StringVar(&f.backend, "pdf-backend", "", "PDF backend: auto, libreoffice, chrome, chromedp, native")
	fs.StringVar(&f.quality, "pdf-quality", "", "image quality: low, medium, high, max or 1-100")
	fs.StringVar(&f.pages, "pdf-pages", "", "slide range, e.g. 1-3,5")
	fs.StringVar(&f.password, "pdf-password", "", "password required to open the PDF")
	fs.StringVar(&f.compliance, "pdf-compliance", "", "PDF/A mode: pdfa-1b, pdfa-2b, pdfa-3b")
	fs.BoolVar(&f.hidden, "pdf-hidden", false, "include hidden slides")
}

// addUploadFlags adds upload flags to a FlagSet.
func addUploadFlags(fs *flag.FlagSet, f *uploadFlags) {
	fs.BoolVar(&f.enabled, "upload", false, "upload the deck (and PDF)")
	fs.StringVar(&f.backend, "upload-backend", "", "upload backend: auto, gdrive, s3")
	fs.StringVar(&f.credentials, "credentials", "", "Drive service-account key or S3 dotenv file")
	fs.StringVar(&f.folderID, "folder-id", "", "Drive folder ID or S3 bucket")
	fs.StringVar(&f.folderName, "folder-name", "", "Drive folder name or S3 key prefix")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "HTML deck style name or CSS file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// newBuildFlagSet registers every build flag on a new FlagSet.
// Shared by parseBuildFlags and the completion generator.
func newBuildFlagSet(f *buildFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)

	addInputFlags(fs, &f.input)
	addPDFFlags(fs, &f.pdf)
	addUploadFlags(fs, &f.upload)
	addAssetFlags(fs, &f.assets)
	fs.StringVar(&f.timeout, "timeout", "", "overall timeout (e.g., 30s, 2m)")
	addCommonFlags(fs, &f.common)

	return fs
}

// parseBuildFlags parses build command flags and returns positional args.
func parseBuildFlags(args []string, stderr io.Writer) (*buildFlags, []string, error) {
	f := &buildFlags{}
	fs := newBuildFlagSet(f)
	fs.SetOutput(stderr)
	fs.Usage = func() { printBuildUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if f.common.quiet && f.common.verbose {
		return nil, nil, fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrUsage)
	}
	if f.input.maxChars < 0 {
		return nil, nil, fmt.Errorf("%w: --max-chars must not be negative", ErrUsage)
	}

	return f, fs.Args(), nil
}
