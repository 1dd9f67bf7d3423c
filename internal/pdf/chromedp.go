package pdf

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Chromedp prints HTML decks with a Chrome instance started per conversion.
type Chromedp struct {
	html     HTMLRenderer
	lookPath func(string) (string, error)
}

// NewChromedp creates a Chromedp backend.
func NewChromedp(html HTMLRenderer) *Chromedp {
	return &Chromedp{html: html, lookPath: exec.LookPath}
}

// Name implements Backend.
func (c *Chromedp) Name() string { return BackendChromedp }

// Features implements Backend.
func (c *Chromedp) Features() Features { return Features{} }

// Probe implements Backend.
func (c *Chromedp) Probe() Status {
	if bin, ok := findChrome(c.lookPath); ok {
		return Status{Name: c.Name(), Available: true, Detail: bin}
	}
	return Status{Name: c.Name(), Detail: "Chrome/Chromium not found in PATH"}
}

// Convert implements Backend.
func (c *Chromedp) Convert(ctx context.Context, req *Request, outPath string) error {
	path, cleanup, err := htmlFile(ctx, c.html, req)
	if err != nil {
		return err
	}
	defer cleanup()

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("no-first-run", true),
	)
	if bin, ok := findChrome(c.lookPath); ok {
		allocOpts = append(allocOpts, chromedp.ExecPath(bin))
	}
	if noSandbox() {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer allocCancel()
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	defer tabCancel()

	var buf []byte
	if err := chromedp.Run(tabCtx,
		chromedp.Navigate(fileURL(path)),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPaperWidth(pageWidthIn).
				WithPaperHeight(pageHeightIn).
				WithMarginTop(0).
				WithMarginRight(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	// #nosec G306 -- permissions are set when the converter moves the file into place
	return os.WriteFile(outPath, buf, 0o600)
}

// Compile-time interface check.
var _ Backend = (*Chromedp)(nil)
