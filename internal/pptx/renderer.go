// Package pptx renders a slide deck as an Office Open XML presentation.
//
// The package is written from scratch on archive/zip and text/template: one
// blank layout, one text box per visual element, no embedded media.
package pptx

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/alnah/go-versedeck/internal/fileutil"
	"github.com/alnah/go-versedeck/internal/slides"
)

// Extension is the file extension of rendered decks.
const Extension = ".pptx"

// Font sizes are capped to the largest size PowerPoint accepts.
const maxFontSize = 4000

// First slide ID allowed by ECMA-376 and the relationship IDs taken by
// fixed presentation parts.
const (
	firstSlideID  = 256
	fixedRelCount = 5
)

// ErrNilDeck is returned when Render or Write receives a nil deck.
var ErrNilDeck = errors.New("nil deck")

// Renderer writes .pptx files.
type Renderer struct {
	now     func() time.Time
	creator string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock sets the time source used for document metadata and zip entries.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// WithCreator sets the application name written to document properties.
func WithCreator(name string) Option {
	return func(r *Renderer) {
		if name != "" {
			r.creator = name
		}
	}
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{now: time.Now, creator: "versedeck"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes deck to outputPath. The file is written atomically: on any
// error no file is left at outputPath.
func (r *Renderer) Render(ctx context.Context, deck *slides.Deck, outputPath string) error {
	if deck == nil {
		return ErrNilDeck
	}
	return fileutil.WriteAtomic(outputPath, func(w io.Writer) error {
		return r.Write(ctx, w, deck)
	})
}

// Write streams the .pptx package for deck to w.
func (r *Renderer) Write(ctx context.Context, w io.Writer, deck *slides.Deck) error {
	if deck == nil {
		return ErrNilDeck
	}

	pkg := &packageWriter{zw: zip.NewWriter(w), modified: r.now()}
	if err := r.writeParts(ctx, pkg, deck); err != nil {
		_ = pkg.zw.Close()
		return err
	}
	if err := pkg.zw.Close(); err != nil {
		return fmt.Errorf("closing package: %w", err)
	}
	return nil
}

// slideRef identifies a slide part inside the package.
type slideRef struct {
	Number int
	ID     int
	RelID  string
}

type packageData struct {
	Slides  []slideRef
	Width   int64
	Height  int64
	Title   string
	Creator string
	Created string
}

func (r *Renderer) writeParts(ctx context.Context, pkg *packageWriter, deck *slides.Deck) error {
	data := packageData{
		Slides:  make([]slideRef, len(deck.Slides)),
		Width:   slides.EMU(slides.SlideWidthIn),
		Height:  slides.EMU(slides.SlideHeightIn),
		Title:   deck.Title,
		Creator: r.creator,
		Created: pkg.modified.UTC().Format(time.RFC3339),
	}
	for i := range deck.Slides {
		data.Slides[i] = slideRef{
			Number: i + 1,
			ID:     firstSlideID + i,
			RelID:  fmt.Sprintf("rId%d", fixedRelCount+i+1),
		}
	}

	steps := []struct {
		name string
		tmpl *template.Template
	}{
		{"[Content_Types].xml", contentTypesTemplate},
		{"docProps/core.xml", coreTemplate},
		{"docProps/app.xml", appTemplate},
		{"ppt/presentation.xml", presentationTemplate},
		{"ppt/_rels/presentation.xml.rels", presentationRelsTemplate},
	}
	for _, s := range steps {
		if err := pkg.template(s.name, s.tmpl, "", data); err != nil {
			return err
		}
	}

	static := []struct{ name, content string }{
		{"_rels/.rels", rootRels},
		{"ppt/presProps.xml", presProps},
		{"ppt/viewProps.xml", viewProps},
		{"ppt/tableStyles.xml", tableStyles},
		{"ppt/theme/theme1.xml", theme},
		{"ppt/slideMasters/slideMaster1.xml", slideMaster},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", masterRels},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayout},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", layoutRels},
	}
	for _, s := range static {
		if err := pkg.raw(s.name, s.content); err != nil {
			return err
		}
	}

	for i, slide := range deck.Slides {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := i + 1
		if err := pkg.template(fmt.Sprintf("ppt/slides/slide%d.xml", n), slideTemplate, "slide", slideData{Shapes: shapesFor(slide)}); err != nil {
			return err
		}
		if err := pkg.raw(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), slideRels); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Slide content
// ---------------------------------------------------------------------------

type slideData struct {
	Shapes []shape
}

// shape is a text box with a single centred paragraph.
type shape struct {
	ID         int
	Name       string
	X, Y, W, H int64
	Anchor     string
	Runs       []textRun
}

// textRun is a run or, when Break is set, a line break.
type textRun struct {
	Text   string
	Break  bool
	Size   int // hundredths of a point
	Bold   bool
	Italic bool
	Color  string
}

func shapesFor(s slides.Slide) []shape {
	var shapes []shape
	add := func(name string, box slides.Box, anchor string, runs []textRun) {
		shapes = append(shapes, shape{
			ID:     len(shapes) + 2,
			Name:   name,
			X:      slides.EMU(box.X),
			Y:      slides.EMU(box.Y),
			W:      slides.EMU(box.W),
			H:      slides.EMU(box.H),
			Anchor: anchor,
			Runs:   runs,
		})
	}

	switch s.Kind {
	case slides.KindTitle:
		add("Title", slides.TitleBox, "b", styled(s.Title, slides.TitleSize, false, false, slides.TextColor))
		if s.Subtitle != "" {
			add("Subtitle", slides.SubtitleBox, "t", styled(s.Subtitle, slides.SubtitleSize, false, false, slides.SubtitleColor))
		}
	case slides.KindSection:
		add("Section", slides.SectionBox, "ctr", styled(s.Title, slides.SectionSize, false, false, slides.SectionColor))
	default:
		var body []textRun
		for _, run := range s.Runs {
			size := slides.BodySize
			color := slides.TextColor
			if run.Highlighted {
				color = slides.HighlightColor
			}
			if run.FontSize > 0 {
				size = run.FontSize
			}
			body = append(body, styled(run.Text, size, run.Bold(), false, color)...)
		}
		add("Verse", slides.BodyBox, "ctr", body)
		add("Reference", slides.ReferenceBox, "ctr", styled(s.Reference, slides.ReferenceSize, false, true, slides.ReferenceColor))
	}
	return shapes
}

// styled splits text on newlines into runs separated by line breaks.
func styled(text string, sizePt int, bold, italic bool, color slides.RGB) []textRun {
	if sizePt > maxFontSize {
		sizePt = maxFontSize
	}
	base := textRun{Size: sizePt * 100, Bold: bold, Italic: italic, Color: color.Hex()}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	runs := make([]textRun, 0, 2*len(lines)-1)
	for i, line := range lines {
		if i > 0 {
			br := base
			br.Break = true
			runs = append(runs, br)
		}
		if line == "" {
			continue
		}
		r := base
		r.Text = line
		runs = append(runs, r)
	}
	return runs
}

// ---------------------------------------------------------------------------
// Zip helpers
// ---------------------------------------------------------------------------

type packageWriter struct {
	zw       *zip.Writer
	modified time.Time
}

func (p *packageWriter) create(name string) (io.Writer, error) {
	w, err := p.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: p.modified,
	})
	if err != nil {
		return nil, fmt.Errorf("adding %s: %w", name, err)
	}
	return w, nil
}

func (p *packageWriter) raw(name, content string) error {
	w, err := p.create(name)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, content); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

func (p *packageWriter) template(name string, tmpl *template.Template, define string, data any) error {
	w, err := p.create(name)
	if err != nil {
		return err
	}
	if define != "" {
		err = tmpl.ExecuteTemplate(w, define, data)
	} else {
		err = tmpl.Execute(w, data)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
