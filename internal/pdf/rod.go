package pdf

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-versedeck/internal/process"
)

// Rod prints HTML decks with headless Chrome driven by go-rod.
// The browser is started on first use and kept until Close.
type Rod struct {
	html HTMLRenderer

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// NewRod creates a Rod backend. html renders decks that are not already HTML.
func NewRod(html HTMLRenderer) *Rod {
	return &Rod{html: html}
}

// Name implements Backend.
func (r *Rod) Name() string { return BackendChrome }

// Features implements Backend.
func (r *Rod) Features() Features { return Features{} }

// Probe implements Backend.
func (r *Rod) Probe() Status {
	if bin := os.Getenv(BrowserBinEnv); bin != "" {
		return Status{Name: r.Name(), Available: true, Detail: bin}
	}
	if path, found := launcher.LookPath(); found {
		return Status{Name: r.Name(), Available: true, Detail: path}
	}
	return Status{Name: r.Name(), Detail: "Chrome/Chromium not found (set " + BrowserBinEnv + ")"}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *Rod) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()
	if bin := os.Getenv(BrowserBinEnv); bin != "" {
		l = l.Bin(bin)
	}
	if noSandbox() {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l
	r.browser = browser
	return nil
}

// Convert implements Backend.
func (r *Rod) Convert(ctx context.Context, req *Request, outPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, cleanup, err := htmlFile(ctx, r.html, req)
	if err != nil {
		return err
	}
	defer cleanup()

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureBrowser(); err != nil {
		return err
	}

	page, err := r.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: fileURL(path)})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	defer func() { _ = page.Close() }()

	timeout := req.Options.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return context.DeadlineExceeded
		}
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:        floatPtr(pageWidthIn),
		PaperHeight:       floatPtr(pageHeightIn),
		MarginTop:         floatPtr(0),
		MarginBottom:      floatPtr(0),
		MarginLeft:        floatPtr(0),
		MarginRight:       floatPtr(0),
		PrintBackground:   true,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	// #nosec G306 -- permissions are set when the converter moves the file into place
	return os.WriteFile(outPath, data, 0o600)
}

// Close shuts the browser down and kills its process group.
func (r *Rod) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	if pid := r.launcher.PID(); pid > 0 {
		process.KillProcessGroup(pid)
	}
	r.launcher.Kill()
	r.launcher.Cleanup()
	r.browser = nil
	r.launcher = nil
	return err
}

// Compile-time interface checks.
var (
	_ Backend   = (*Rod)(nil)
	_ io.Closer = (*Rod)(nil)
)
