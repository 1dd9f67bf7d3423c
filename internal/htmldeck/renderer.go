// Package htmldeck renders a slide deck as a single self-contained HTML page,
// one section per slide, sized for printing at 10in x 7.5in.
package htmldeck

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"

	"github.com/alnah/go-versedeck/internal/assets"
	"github.com/alnah/go-versedeck/internal/fileutil"
	"github.com/alnah/go-versedeck/internal/slides"
)

// Extension is the file extension of rendered decks.
const Extension = ".html"

// Sentinel errors.
var (
	ErrNilDeck   = errors.New("nil deck")
	ErrNilLoader = errors.New("nil asset loader")
)

// Renderer writes HTML decks using a style and page template from an asset loader.
type Renderer struct {
	loader   assets.AssetLoader
	style    string
	template string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithStyle selects a CSS style by name, or by file path when the value
// contains a path separator.
func WithStyle(style string) Option {
	return func(r *Renderer) {
		if style != "" {
			r.style = style
		}
	}
}

// New creates a Renderer reading assets from loader.
func New(loader assets.AssetLoader, opts ...Option) *Renderer {
	r := &Renderer{
		loader:   loader,
		style:    assets.DefaultStyleName,
		template: assets.DefaultTemplateName,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type pageData struct {
	Title  string
	CSS    template.CSS
	Slides []slides.Slide
}

// Render writes deck to outputPath atomically.
func (r *Renderer) Render(ctx context.Context, deck *slides.Deck, outputPath string) error {
	if deck == nil {
		return ErrNilDeck
	}
	page, err := r.HTML(ctx, deck)
	if err != nil {
		return err
	}
	return fileutil.WriteAtomic(outputPath, func(w io.Writer) error {
		_, err := io.WriteString(w, page)
		return err
	})
}

// HTML returns the rendered page for deck.
func (r *Renderer) HTML(ctx context.Context, deck *slides.Deck) (string, error) {
	var buf bytes.Buffer
	if err := r.Write(ctx, &buf, deck); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Write renders deck to w.
func (r *Renderer) Write(ctx context.Context, w io.Writer, deck *slides.Deck) error {
	if deck == nil {
		return ErrNilDeck
	}
	if r.loader == nil {
		return ErrNilLoader
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	css, err := r.loadStyle()
	if err != nil {
		return err
	}
	tmpl, err := r.loadTemplate()
	if err != nil {
		return err
	}

	data := pageData{
		Title:  deck.Title,
		CSS:    template.CSS(css), // #nosec G203 -- styles come from trusted assets
		Slides: deck.Slides,
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("executing deck template: %w", err)
	}
	return nil
}

func (r *Renderer) loadStyle() (string, error) {
	if fileutil.IsFilePath(r.style) {
		data, err := os.ReadFile(r.style) // #nosec G304 -- user-selected stylesheet
		if err != nil {
			return "", fmt.Errorf("%w: %v", assets.ErrStyleNotFound, err)
		}
		return string(data), nil
	}
	return r.loader.LoadStyle(r.style)
}

func (r *Renderer) loadTemplate() (*template.Template, error) {
	src, err := r.loader.LoadTemplate(r.template)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New(r.template).Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing template %q: %w", r.template, err)
	}
	return tmpl, nil
}
