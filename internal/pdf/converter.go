package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-versedeck/internal/slides"
)

// Request describes one conversion.
type Request struct {
	DeckPath   string       // rendered deck (.pptx or .html)
	Deck       *slides.Deck // deck model, for backends that draw or re-render
	OutputPath string
	Options    Options
}

// Features lists the options a backend applies itself.
type Features struct {
	SlideRange bool
	Password   bool
	Compliance bool
}

// Status reports whether a backend can run on this machine.
type Status struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Detail    string `json:"detail,omitempty"`
}

// Backend converts a deck into a PDF written at outPath.
type Backend interface {
	Name() string
	Probe() Status
	Features() Features
	Convert(ctx context.Context, req *Request, outPath string) error
}

// Converter dispatches requests to backends.
type Converter struct {
	backends []Backend
	logger   logrus.FieldLogger
}

// NewConverter creates a Converter. backends are listed in auto priority order.
func NewConverter(logger logrus.FieldLogger, backends ...Backend) *Converter {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Converter{backends: backends, logger: logger}
}

// Statuses probes every backend.
func (c *Converter) Statuses() []Status {
	out := make([]Status, 0, len(c.backends))
	for _, b := range c.backends {
		out = append(out, b.Probe())
	}
	return out
}

// Close releases resources held by backends.
func (c *Converter) Close() error {
	var errs []error
	for _, b := range c.backends {
		if closer, ok := b.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// Convert writes req.OutputPath and returns the name of the backend used.
// On failure no file is left at req.OutputPath.
func (c *Converter) Convert(ctx context.Context, req *Request) (string, error) {
	if req == nil {
		return "", ErrNilRequest
	}
	if err := req.Options.Validate(); err != nil {
		return "", err
	}
	opts := req.Options.withDefaults()
	r := *req
	r.Options = opts

	if opts.Backend != BackendAuto {
		b := c.find(opts.Backend)
		if b == nil {
			return "", fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
		}
		if st := b.Probe(); !st.Available {
			return "", fmt.Errorf("%w: %s (%s)", ErrBackendUnavailable, b.Name(), st.Detail)
		}
		return b.Name(), c.attempt(ctx, b, &r)
	}

	var errs []error
	tried := 0
	for _, b := range c.backends {
		if !b.Probe().Available {
			c.logger.WithField("backend", b.Name()).Debug("PDF backend unavailable, skipping")
			continue
		}
		tried++
		err := c.attempt(ctx, b, &r)
		if err == nil {
			return b.Name(), nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		c.logger.WithError(err).WithField("backend", b.Name()).Warn("PDF backend failed, trying next")
		errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
	}
	if tried == 0 {
		return "", ErrNoBackend
	}
	return "", errors.Join(errs...)
}

func (c *Converter) find(name string) Backend {
	for _, b := range c.backends {
		if b.Name() == name {
			return b
		}
	}
	return nil
}

// attempt runs one backend into a temp file next to the output, applies
// post-processing the backend does not handle, then renames into place.
func (c *Converter) attempt(ctx context.Context, b Backend, req *Request) (err error) {
	feat := b.Features()
	opts := req.Options
	if opts.Compliance != ComplianceNone && !feat.Compliance {
		return fmt.Errorf("%w: %s cannot produce %s", ErrUnsupportedOption, b.Name(), opts.Compliance)
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	dir := filepath.Dir(req.OutputPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".versedeck-*.pdf")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	log := c.logger.WithField("backend", b.Name())
	log.Debug("converting deck to PDF")
	if err = b.Convert(ctx, req, tmpPath); err != nil {
		return err
	}
	if info, statErr := os.Stat(tmpPath); statErr != nil || info.Size() == 0 {
		return ErrEmptyOutput
	}

	if opts.SlideRange != "" && !feat.SlideRange {
		log.WithField("range", opts.SlideRange).Debug("trimming slides")
		if err = trimPages(tmpPath, opts.SlideRange); err != nil {
			return err
		}
	}
	// Natively encrypted output cannot be inspected without the password.
	if opts.Password == "" || !feat.Password {
		if err = verifyPDF(tmpPath); err != nil {
			return err
		}
	}
	if opts.Password != "" && !feat.Password {
		log.Debug("encrypting PDF")
		if err = encryptPDF(tmpPath, opts.Password); err != nil {
			return err
		}
	}

	if err = os.Chmod(tmpPath, 0o644); err != nil { // #nosec G302 -- exported PDFs are meant to be shared
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err = os.Rename(tmpPath, req.OutputPath); err != nil {
		return fmt.Errorf("moving PDF into place: %w", err)
	}
	return nil
}
