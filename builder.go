package versedeck

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-versedeck/internal/assets"
	"github.com/alnah/go-versedeck/internal/fileutil"
	"github.com/alnah/go-versedeck/internal/htmldeck"
	"github.com/alnah/go-versedeck/internal/logging"
	"github.com/alnah/go-versedeck/internal/pdf"
	"github.com/alnah/go-versedeck/internal/pptx"
	"github.com/alnah/go-versedeck/internal/slides"
	"github.com/alnah/go-versedeck/internal/upload"
)

// Compile-time interface implementation checks.
var (
	_ Renderer         = (*pptx.Renderer)(nil)
	_ Renderer         = (*htmldeck.Renderer)(nil)
	_ pdf.HTMLRenderer = (*htmldeck.Renderer)(nil)
)

// Deck formats.
const (
	FormatPPTX = "pptx"
	FormatHTML = "html"
)

// defaultTimeout bounds a whole build: render, PDF and upload.
const defaultTimeout = 5 * time.Minute

// Renderer writes a deck file. Implementations must leave no file at
// outputPath when they fail.
type Renderer interface {
	Render(ctx context.Context, deck *slides.Deck, outputPath string) error
}

// PDFOptions requests a PDF export of the rendered deck.
type PDFOptions struct {
	Backend      string // auto (default), libreoffice, chrome, chromedp, native
	Quality      int    // 1-100, 0 = 90
	SlideRange   string // e.g. "1-3,5"; empty = all
	Password     string
	Compliance   string // "", pdfa-1b, pdfa-2b, pdfa-3b
	ExportHidden bool
	OutputPath   string // empty = deck path with a .pdf extension
}

// UploadOptions requests publishing the artifacts.
type UploadOptions struct {
	Backend     string // auto (default), gdrive, s3
	Credentials string // Drive service-account key or S3 dotenv file
	FolderID    string
	FolderName  string
}

// Input describes one build.
type Input struct {
	Document    *Document
	InputPath   string // source file, used to derive the output name
	CustomTitle string
	OutputPath  string // file or existing directory; empty = derived name in OutputDir
	OutputDir   string
	Format      string // pptx (default) or html
	PDF         *PDFOptions
	Upload      *UploadOptions
}

// Location is where an artifact was uploaded.
type Location struct {
	Backend     string `json:"backend"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
	Size        int64  `json:"size"`
	Checksum    string `json:"checksum"`
}

// Result reports the artifacts of a build.
type Result struct {
	Plan       Plan
	DeckPath   string
	PDFPath    string
	PDFBackend string
	Uploads    []Location
}

// BackendStatus reports whether a PDF or upload backend can run.
type BackendStatus struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Detail    string `json:"detail,omitempty"`
}

// Option configures a Builder.
type Option func(*Builder)

type builderConfig struct {
	layout    LayoutConfig
	timeout   time.Duration
	style     string
	assetPath string
	now       func() time.Time
	creator   string
}

// WithLayout sets chunk size and default file name.
func WithLayout(cfg LayoutConfig) Option {
	return func(b *Builder) {
		b.cfg.layout = cfg
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithTimeout bounds each call to Build.
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("versedeck: WithTimeout duration must be positive")
	}
	return func(b *Builder) {
		b.cfg.timeout = d
	}
}

// WithStyle selects the HTML deck style by name or CSS file path.
func WithStyle(style string) Option {
	return func(b *Builder) {
		b.cfg.style = style
	}
}

// WithAssetPath adds a directory searched for styles and templates before
// the embedded ones.
func WithAssetPath(path string) Option {
	return func(b *Builder) {
		b.cfg.assetPath = path
	}
}

// WithClock sets the time stamped into deck metadata.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.cfg.now = now
	}
}

// WithCreator sets the application name recorded in deck metadata.
func WithCreator(name string) Option {
	return func(b *Builder) {
		b.cfg.creator = name
	}
}

// WithRenderer replaces the renderer used for format.
func WithRenderer(format string, r Renderer) Option {
	return func(b *Builder) {
		b.renderers[format] = r
	}
}

// WithPDFBackends replaces the PDF backends, in auto priority order.
func WithPDFBackends(backends ...pdf.Backend) Option {
	return func(b *Builder) {
		b.pdfBackends = backends
	}
}

// WithUploaders replaces the upload backends, in auto priority order.
func WithUploaders(backends ...upload.Backend) Option {
	return func(b *Builder) {
		b.uploaders = backends
	}
}

// Builder turns verse documents into decks, PDFs and uploads.
// Create with NewBuilder, call Build, and Close when done.
type Builder struct {
	cfg         builderConfig
	logger      logrus.FieldLogger
	planner     *Planner
	renderers   map[string]Renderer
	pdfBackends []pdf.Backend
	uploaders   []upload.Backend
	converter   *pdf.Converter
	uploads     *upload.Manager
}

// NewBuilder creates a Builder. Returns an error when the asset path or the
// style cannot be loaded.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		cfg:       builderConfig{layout: DefaultLayoutConfig(), timeout: defaultTimeout},
		logger:    logging.Discard(),
		renderers: make(map[string]Renderer),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.planner = NewPlanner(b.cfg.layout)

	var loader assets.AssetLoader = assets.NewEmbeddedLoader()
	if b.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(b.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAssetPath, err)
		}
		if resolver.HasCustomLoader() {
			b.logger.WithField("path", b.cfg.assetPath).Debug("using custom assets")
		}
		loader = resolver
	}

	html := htmldeck.New(loader, htmldeck.WithStyle(b.cfg.style))
	if _, err := html.HTML(context.Background(), &slides.Deck{}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStyle, err)
	}

	if _, ok := b.renderers[FormatPPTX]; !ok {
		b.renderers[FormatPPTX] = pptx.New(pptx.WithClock(b.cfg.now), pptx.WithCreator(b.cfg.creator))
	}
	if _, ok := b.renderers[FormatHTML]; !ok {
		b.renderers[FormatHTML] = html
	}
	if b.pdfBackends == nil {
		b.pdfBackends = []pdf.Backend{
			pdf.NewLibreOffice(),
			pdf.NewRod(html),
			pdf.NewChromedp(html),
			pdf.NewNative(),
		}
	}
	if b.uploaders == nil {
		b.uploaders = []upload.Backend{upload.NewGDrive(), upload.NewS3()}
	}
	b.converter = pdf.NewConverter(b.logger, b.pdfBackends...)
	b.uploads = upload.NewManager(b.logger, b.uploaders...)

	return b, nil
}

// Planner returns the planner configured by WithLayout.
func (b *Builder) Planner() *Planner {
	return b.planner
}

// Close releases resources held by PDF backends (a running browser).
func (b *Builder) Close() error {
	if b.converter != nil {
		return b.converter.Close()
	}
	return nil
}

// PDFBackends probes every PDF backend.
func (b *Builder) PDFBackends() []BackendStatus {
	var out []BackendStatus
	for _, st := range b.converter.Statuses() {
		out = append(out, BackendStatus(st))
	}
	return out
}

// UploadBackends probes every upload backend against a credentials file.
func (b *Builder) UploadBackends(credentials string) []BackendStatus {
	var out []BackendStatus
	for _, st := range b.uploads.Statuses(credentials) {
		out = append(out, BackendStatus(st))
	}
	return out
}

// Build plans and renders in.Document, then optionally exports a PDF and
// uploads the artifacts.
//
// The deck is written atomically. When a later step fails, the returned
// Result still names the deck (and PDF) already written, alongside a
// *ConversionError or *UploadError.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (b *Builder) Build(ctx context.Context, in Input) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("internal error: %v", r)
		}
	}()

	format, err := b.validateInput(in)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, b.cfg.timeout)
	defer cancel()

	plan := b.planner.BuildPlan(in.Document, in.CustomTitle)
	deck := toDeck(plan)
	log := b.logger.WithFields(logrus.Fields{"slides": len(plan), "format": format})

	deckPath := b.outputPath(in, "."+format)
	if err := b.renderers[format].Render(ctx, deck, deckPath); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	log.WithField("path", deckPath).Info("deck written")
	res = &Result{Plan: plan, DeckPath: deckPath}

	if in.PDF != nil {
		if err := b.exportPDF(ctx, in.PDF, deck, res); err != nil {
			return res, err
		}
	}

	if in.Upload != nil {
		paths := []string{res.DeckPath}
		if res.PDFPath != "" {
			paths = append(paths, res.PDFPath)
		}
		if err := b.upload(ctx, in.Upload, paths, res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func (b *Builder) exportPDF(ctx context.Context, opts *PDFOptions, deck *slides.Deck, res *Result) error {
	out := opts.OutputPath
	if out == "" {
		out = fileutil.ReplaceExt(res.DeckPath, ".pdf")
	}
	used, err := b.converter.Convert(ctx, &pdf.Request{
		DeckPath:   res.DeckPath,
		Deck:       deck,
		OutputPath: out,
		Options:    toPDFOptions(opts, b.cfg.timeout),
	})
	if err != nil {
		name := used
		if name == "" {
			name = opts.Backend
		}
		return &ConversionError{Backend: name, Err: err}
	}
	b.logger.WithFields(logrus.Fields{"backend": used, "path": out}).Info("PDF written")
	res.PDFPath = out
	res.PDFBackend = used
	return nil
}

func (b *Builder) upload(ctx context.Context, opts *UploadOptions, paths []string, res *Result) error {
	used, locs, err := b.uploads.UploadAll(ctx, opts.Backend, opts.Credentials, upload.Request{
		FolderID:   opts.FolderID,
		FolderName: opts.FolderName,
	}, paths...)
	for _, l := range locs {
		res.Uploads = append(res.Uploads, Location(l))
	}
	if err != nil {
		failed := ""
		if len(locs) < len(paths) {
			failed = paths[len(locs)]
		}
		backend := used
		if backend == "" {
			backend = opts.Backend
		}
		if backend == "" {
			backend = upload.BackendAuto
		}
		return &UploadError{Backend: backend, Path: failed, Err: err}
	}
	return nil
}

// validateInput checks the request before any file is written and returns
// the effective format.
func (b *Builder) validateInput(in Input) (string, error) {
	if in.Document == nil {
		return "", ErrNilDocument
	}
	format := strings.ToLower(in.Format)
	if format == "" {
		format = FormatPPTX
	}
	if _, ok := b.renderers[format]; !ok {
		return "", fmt.Errorf("%w: %q (must be pptx or html)", ErrUnknownFormat, in.Format)
	}
	if in.PDF != nil {
		if err := toPDFOptions(in.PDF, b.cfg.timeout).Validate(); err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidOptions, err)
		}
	}
	if in.Upload != nil && in.Upload.Backend != "" && in.Upload.Backend != upload.BackendAuto {
		if _, err := b.uploads.Resolve(in.Upload.Backend, in.Upload.Credentials); err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidOptions, err)
		}
	}
	return format, nil
}

// outputPath resolves where the deck goes. A directory target receives the
// derived file name; a file target has its extension set to ext.
func (b *Builder) outputPath(in Input, ext string) string {
	name := b.planner.Filename(in.CustomTitle, in.InputPath, ext)

	out := in.OutputPath
	switch {
	case out == "":
		return filepath.Join(in.OutputDir, name)
	case strings.HasSuffix(out, "/") || strings.HasSuffix(out, string(os.PathSeparator)) || isDir(out):
		return filepath.Join(out, name)
	case filepath.Ext(out) == "":
		return out + ext
	case !strings.EqualFold(filepath.Ext(out), ext):
		return fileutil.ReplaceExt(out, ext)
	}
	return out
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func toPDFOptions(o *PDFOptions, timeout time.Duration) pdf.Options {
	return pdf.Options{
		Backend:      o.Backend,
		Quality:      o.Quality,
		SlideRange:   o.SlideRange,
		Password:     o.Password,
		Compliance:   o.Compliance,
		ExportHidden: o.ExportHidden,
		Timeout:      timeout,
	}
}

// toDeck maps a plan onto the renderer slide model.
func toDeck(plan Plan) *slides.Deck {
	deck := &slides.Deck{Slides: make([]slides.Slide, 0, len(plan))}
	for _, e := range plan {
		switch e.Kind {
		case SlideTitle:
			if deck.Title == "" {
				deck.Title = e.Title
			}
			deck.Slides = append(deck.Slides, slides.Slide{Kind: slides.KindTitle, Title: e.Title, Subtitle: e.Subtitle})
		case SlideSection:
			deck.Slides = append(deck.Slides, slides.Slide{Kind: slides.KindSection, Title: e.SectionName})
		case SlideVerse:
			runs := make([]slides.Run, len(e.Runs))
			for i, r := range e.Runs {
				runs[i] = slides.Run{Text: r.Text, Highlighted: r.Highlighted, FontSize: r.FontSize}
			}
			deck.Slides = append(deck.Slides, slides.Slide{Kind: slides.KindVerse, Reference: e.ReferenceLabel, Runs: runs})
		}
	}
	return deck
}
