package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-versedeck"
	"github.com/alnah/go-versedeck/internal/assets"
	"github.com/alnah/go-versedeck/internal/config"
	"github.com/alnah/go-versedeck/internal/fileutil"
	"github.com/alnah/go-versedeck/internal/hints"
	"github.com/alnah/go-versedeck/internal/logging"
	"github.com/alnah/go-versedeck/internal/pdf"
	"github.com/alnah/go-versedeck/internal/upload"
)

// Sentinel errors for the CLI.
var (
	ErrUsage   = errors.New("invalid usage")
	ErrNoInput = errors.New("no input document")
)

// defaultInput is read when neither a document nor --example is given.
const defaultInput = "verses.json"

// stdinArg reads the document from standard input.
const stdinArg = "-"

// runBuild executes the build command.
func runBuild(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseBuildFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: expected one input document, got %d", ErrUsage, len(positional))
	}
	if len(positional) == 1 && flags.input.example != "" {
		return fmt.Errorf("%w: an input document and --example are mutually exclusive", ErrUsage)
	}

	envCfg, err := loadEnvConfig(env.Getenv)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	timeout, err := resolveTimeout(flags.timeout, cfg)
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Stderr: env.Stderr,
	})
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	var input string
	if len(positional) == 1 {
		input = positional[0]
	}
	doc, inputPath, err := loadDocument(input, flags.input.example, os.Stdin)
	if err != nil {
		return err
	}

	opts := []versedeck.Option{
		versedeck.WithLayout(versedeck.LayoutConfig{
			MaxCharsPerChunk: cfg.Layout.MaxChars,
			DefaultBaseName:  cfg.Layout.DefaultBaseName,
		}),
		versedeck.WithLogger(logger),
		versedeck.WithStyle(cfg.Style),
		versedeck.WithAssetPath(cfg.Assets.BasePath),
		versedeck.WithClock(env.Now),
		versedeck.WithCreator("versedeck " + Version),
	}
	if timeout > 0 {
		opts = append(opts, versedeck.WithTimeout(timeout))
	}
	opts = append(opts, env.BuilderOptions...)

	builder, err := versedeck.NewBuilder(opts...)
	if err != nil {
		return withBuilderHint(err)
	}
	defer func() { _ = builder.Close() }()

	in, err := buildInput(flags, cfg, envCfg, env, doc, inputPath)
	if err != nil {
		return err
	}

	start := env.Now()
	res, err := builder.Build(ctx, in)
	printResult(env.Stdout, flags.common, res, env.Now().Sub(start))
	if err != nil {
		return withBuildHint(err)
	}
	return nil
}

// loadConfig loads the config named by the flag, then the environment.
// Without either, defaults apply.
func loadConfig(flagValue, envValue string) (*config.Config, error) {
	name := flagValue
	if name == "" {
		name = envValue
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(triedPaths(err)))
		}
		return nil, err
	}
	return cfg, nil
}

// triedPaths extracts the searched paths from a config-not-found message.
func triedPaths(err error) []string {
	_, list, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}

// mergeFlags overlays explicitly set flags on the config.
// Flags always override config values; a PDF or upload detail flag
// enables the feature it configures.
func mergeFlags(flags *buildFlags, cfg *config.Config) {
	setString(&cfg.Output.Format, strings.ToLower(flags.input.format))
	if flags.input.maxChars > 0 {
		cfg.Layout.MaxChars = flags.input.maxChars
	}
	setString(&cfg.Style, flags.assets.style)
	setString(&cfg.Assets.BasePath, flags.assets.assetPath)

	p := flags.pdf
	setString(&cfg.PDF.Backend, p.backend)
	setString(&cfg.PDF.Quality, p.quality)
	setString(&cfg.PDF.Pages, p.pages)
	setString(&cfg.PDF.Compliance, p.compliance)
	if p.hidden {
		cfg.PDF.ExportHidden = true
	}
	if p.enabled || p.backend != "" || p.quality != "" || p.pages != "" ||
		p.password != "" || p.compliance != "" || p.hidden {
		cfg.PDF.Enabled = true
	}

	u := flags.upload
	setString(&cfg.Upload.Backend, u.backend)
	setString(&cfg.Upload.Credentials, u.credentials)
	setString(&cfg.Upload.FolderID, u.folderID)
	setString(&cfg.Upload.FolderName, u.folderName)
	if u.enabled || u.backend != "" || u.folderID != "" || u.folderName != "" {
		cfg.Upload.Enabled = true
	}

	setString(&cfg.Log.Format, flags.common.logFormat)
	setString(&cfg.Log.File, flags.common.logFile)
	switch {
	case flags.common.verbose:
		cfg.Log.Level = "debug"
	case flags.common.quiet:
		cfg.Log.Level = "error"
	}
}

// resolveTimeout returns the --timeout flag, else the configured timeout.
// Zero keeps the builder default.
func resolveTimeout(flagValue string, cfg *config.Config) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil || d <= 0 {
			return 0, fmt.Errorf("%w: --timeout %q is not a positive duration", ErrUsage, flagValue)
		}
		return d, nil
	}
	d, err := cfg.PDF.TimeoutDuration()
	if err != nil {
		return 0, err
	}
	return d, nil
}

// loadDocument reads the input document, a bundled example, or the default
// verses.json in the current directory. It returns the path used for
// output naming.
func loadDocument(input, example string, stdin io.Reader) (*versedeck.Document, string, error) {
	switch {
	case example != "":
		doc, err := versedeck.LoadExample(example)
		if err != nil {
			return nil, "", withDocumentHint(err)
		}
		return doc, example, nil
	case input == stdinArg:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", fmt.Errorf("reading standard input: %w", err)
		}
		doc, err := versedeck.LoadBytes(data, "")
		if err != nil {
			return nil, "", withDocumentHint(err)
		}
		return doc, "", nil
	case input == "":
		if !fileutil.FileExists(defaultInput) {
			return nil, "", fmt.Errorf("%w: pass a document, --example, or create %s%s",
				ErrNoInput, defaultInput, hints.ForExampleNotFound(versedeck.ListExamples()))
		}
		input = defaultInput
	}

	doc, err := versedeck.Load(input)
	if err != nil {
		return nil, "", withDocumentHint(err)
	}
	return doc, input, nil
}

// buildInput assembles the builder input from flags and config.
func buildInput(flags *buildFlags, cfg *config.Config, envCfg *envConfig, env *Environment, doc *versedeck.Document, inputPath string) (versedeck.Input, error) {
	in := versedeck.Input{
		Document:    doc,
		InputPath:   inputPath,
		CustomTitle: flags.input.title,
		OutputPath:  flags.input.output,
		OutputDir:   cfg.Output.DefaultDir,
		Format:      cfg.Output.Format,
	}

	if cfg.PDF.Enabled {
		quality, err := pdf.ParseQuality(cfg.PDF.Quality)
		if err != nil {
			return in, fmt.Errorf("%w: %w", ErrUsage, err)
		}
		compliance, err := pdf.ParseCompliance(cfg.PDF.Compliance)
		if err != nil {
			return in, fmt.Errorf("%w: %w", ErrUsage, err)
		}
		password := flags.pdf.password
		if password == "" {
			password = envCfg.PDFPassword
		}
		in.PDF = &versedeck.PDFOptions{
			Backend:      cfg.PDF.Backend,
			Quality:      quality,
			SlideRange:   cfg.PDF.Pages,
			Password:     password,
			Compliance:   compliance,
			ExportHidden: cfg.PDF.ExportHidden,
		}
	}

	if cfg.Upload.Enabled {
		credentials := cfg.Upload.Credentials
		if credentials == "" {
			credentials = env.Getenv(upload.CredentialsEnv)
		}
		in.Upload = &versedeck.UploadOptions{
			Backend:     cfg.Upload.Backend,
			Credentials: credentials,
			FolderID:    cfg.Upload.FolderID,
			FolderName:  cfg.Upload.FolderName,
		}
	}

	return in, nil
}

// printResult reports written artifacts, including those of a partially
// failed build.
func printResult(w io.Writer, common commonFlags, res *versedeck.Result, elapsed time.Duration) {
	if res == nil || common.quiet {
		return
	}
	if res.DeckPath != "" {
		fmt.Fprintf(w, "Created %s (%d slides)\n", res.DeckPath, len(res.Plan))
	}
	if res.PDFPath != "" {
		fmt.Fprintf(w, "Created %s (%s)\n", res.PDFPath, res.PDFBackend)
	}
	for _, loc := range res.Uploads {
		url := loc.URL
		if url == "" {
			url = loc.ID
		}
		fmt.Fprintf(w, "Uploaded %s to %s: %s\n", loc.Name, loc.Backend, url)
	}
	if common.verbose {
		fmt.Fprintf(w, "Done in %s\n", elapsed.Round(time.Millisecond))
	}
}

// withDocumentHint appends hints to document loading errors.
func withDocumentHint(err error) error {
	switch {
	case errors.Is(err, assets.ErrExampleNotFound), errors.Is(err, assets.ErrInvalidAssetName):
		return fmt.Errorf("%w%s", err, hints.ForExampleNotFound(versedeck.ListExamples()))
	case errors.Is(err, versedeck.ErrSchema):
		return fmt.Errorf("%w%s", err, hints.ForSchema())
	}
	return err
}

// withBuilderHint appends hints to builder construction errors.
func withBuilderHint(err error) error {
	if errors.Is(err, assets.ErrStyleNotFound) {
		return fmt.Errorf("%w%s", err, hints.ForStyleNotFound(assets.NewEmbeddedLoader().ListStyles()))
	}
	return err
}

// withBuildHint appends hints to build errors.
func withBuildHint(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w%s", err, hints.ForTimeout())
	case errors.Is(err, pdf.ErrUnsupportedOption):
		return fmt.Errorf("%w%s", err, hints.ForCompliance())
	case errors.Is(err, pdf.ErrBrowserConnect):
		return fmt.Errorf("%w%s", err, hints.ForBrowserConnect())
	case errors.Is(err, pdf.ErrNoBackend), errors.Is(err, pdf.ErrBackendUnavailable):
		return fmt.Errorf("%w%s", err, hints.ForPDFBackend())
	case errors.Is(err, upload.ErrNoCredentials), errors.Is(err, upload.ErrCredentials),
		errors.Is(err, upload.ErrNoBackend), errors.Is(err, upload.ErrMissingSetting):
		var ue *versedeck.UploadError
		backend := ""
		if errors.As(err, &ue) {
			backend = ue.Backend
		}
		return fmt.Errorf("%w%s", err, hints.ForCredentials(backend))
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w%s", err, hints.ForOutputDirectory())
	}
	return err
}
