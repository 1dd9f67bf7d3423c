package pdf

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alnah/go-versedeck/internal/fileutil"
	"github.com/alnah/go-versedeck/internal/slides"
)

// Slide page size for printing, in inches.
const (
	pageWidthIn  = slides.SlideWidthIn
	pageHeightIn = slides.SlideHeightIn
)

// BrowserBinEnv overrides Chrome discovery for both Chrome backends.
const BrowserBinEnv = "ROD_BROWSER_BIN"

// NoSandboxEnv disables the Chrome sandbox (Docker, CI).
const NoSandboxEnv = "ROD_NO_SANDBOX"

// HTMLRenderer renders a deck model to an HTML page.
type HTMLRenderer interface {
	HTML(ctx context.Context, deck *slides.Deck) (string, error)
}

var errNoHTML = errors.New("no HTML deck and no HTML renderer")

// chromeNames lists executables tried when looking for Chrome.
var chromeNames = []string{
	"headless-shell",
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"chrome",
}

// findChrome returns a Chrome executable, honouring BrowserBinEnv.
func findChrome(lookPath func(string) (string, error)) (string, bool) {
	if bin := os.Getenv(BrowserBinEnv); bin != "" {
		return bin, true
	}
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	for _, name := range chromeNames {
		if p, err := lookPath(name); err == nil {
			return p, true
		}
	}
	return "", false
}

// noSandbox reports whether Chrome should run without its sandbox.
func noSandbox() bool {
	return os.Getenv(NoSandboxEnv) == "1" || os.Getenv("CI") == "true" || os.Getenv(BrowserBinEnv) != ""
}

// htmlFile returns a local HTML file for req: the deck itself when it is
// already HTML, otherwise a temp file rendered from req.Deck.
func htmlFile(ctx context.Context, r HTMLRenderer, req *Request) (string, func(), error) {
	if strings.EqualFold(filepath.Ext(req.DeckPath), ".html") {
		abs, err := filepath.Abs(req.DeckPath)
		if err != nil {
			return "", nil, err
		}
		return abs, func() {}, nil
	}
	if r == nil || req.Deck == nil {
		return "", nil, errNoHTML
	}
	page, err := r.HTML(ctx, req.Deck)
	if err != nil {
		return "", nil, err
	}
	return fileutil.WriteTempFile(page, "html")
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
