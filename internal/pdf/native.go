package pdf

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/jung-kurt/gofpdf"

	"github.com/alnah/go-versedeck/internal/slides"
)

const (
	nativeFont   = "Helvetica"
	pointsPerIn  = 72.0
	lineSpacing  = 1.2
	baselineRise = 0.95
)

// Native draws the deck model straight into a PDF with gofpdf. It needs no
// external program. Core fonts cover Windows-1252 only, so characters outside
// it are replaced.
type Native struct {
	creator string
}

// NewNative creates a Native backend.
func NewNative() *Native {
	return &Native{creator: "versedeck"}
}

// Name implements Backend.
func (n *Native) Name() string { return BackendNative }

// Features implements Backend.
func (n *Native) Features() Features {
	return Features{SlideRange: true, Password: true}
}

// Probe implements Backend.
func (n *Native) Probe() Status {
	return Status{Name: n.Name(), Available: true, Detail: "built in"}
}

// Convert implements Backend.
func (n *Native) Convert(ctx context.Context, req *Request, outPath string) error {
	if req.Deck == nil {
		return fmt.Errorf("%w: native backend needs the deck model", ErrUnsupportedInput)
	}
	pages, err := SelectPages(req.Options.SlideRange, len(req.Deck.Slides))
	if err != nil {
		return err
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "in",
		Size:           gofpdf.SizeType{Wd: pageWidthIn, Ht: pageHeightIn},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(req.Deck.Title, true)
	pdf.SetCreator(n.creator, true)
	if req.Options.Password != "" {
		pdf.SetProtection(gofpdf.CnProtectPrint|gofpdf.CnProtectCopy, req.Options.Password, req.Options.Password)
	}

	d := &drawer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		pdf.AddPage()
		d.slide(req.Deck.Slides[p-1])
	}

	f, err := os.Create(outPath) // #nosec G304 -- destination chosen by the converter
	if err != nil {
		return fmt.Errorf("creating PDF: %w", err)
	}
	if err := pdf.Output(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	return f.Close()
}

// ---------------------------------------------------------------------------
// Drawing
// ---------------------------------------------------------------------------

// textStyle is a font and color combination.
type textStyle struct {
	size   int
	bold   bool
	italic bool
	color  slides.RGB
}

func (s textStyle) fontStyle() string {
	var b strings.Builder
	if s.bold {
		b.WriteByte('B')
	}
	if s.italic {
		b.WriteByte('I')
	}
	return b.String()
}

// piece is styled text without whitespace.
type piece struct {
	text  string
	style textStyle
	width float64
}

// word is a run of pieces with no whitespace between them. A highlight can
// start mid-word, so one word may mix styles.
type word struct {
	pieces []piece
	width  float64
	size   int
}

type line struct {
	words  []word
	width  float64
	height float64
	size   int
}

type drawer struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (d *drawer) slide(s slides.Slide) {
	switch s.Kind {
	case slides.KindTitle:
		d.box(slides.TitleBox, []styledText{{s.Title, textStyle{size: slides.TitleSize, color: slides.TextColor}}})
		if s.Subtitle != "" {
			d.box(slides.SubtitleBox, []styledText{{s.Subtitle, textStyle{size: slides.SubtitleSize, color: slides.SubtitleColor}}})
		}
	case slides.KindSection:
		d.box(slides.SectionBox, []styledText{{s.Title, textStyle{size: slides.SectionSize, color: slides.SectionColor}}})
	default:
		body := make([]styledText, 0, len(s.Runs))
		for _, r := range s.Runs {
			st := textStyle{size: slides.BodySize, bold: r.Bold(), color: slides.TextColor}
			if r.Highlighted {
				st.color = slides.HighlightColor
			}
			if r.FontSize > 0 {
				st.size = r.FontSize
			}
			body = append(body, styledText{r.Text, st})
		}
		d.box(slides.BodyBox, body)
		d.box(slides.ReferenceBox, []styledText{{s.Reference, textStyle{size: slides.ReferenceSize, italic: true, color: slides.ReferenceColor}}})
	}
}

type styledText struct {
	text  string
	style textStyle
}

// box draws texts centred horizontally and vertically inside b.
func (d *drawer) box(b slides.Box, texts []styledText) {
	lines := d.layout(texts, b.W)
	total := 0.0
	for _, l := range lines {
		total += l.height
	}

	y := b.Y + (b.H-total)/2
	for _, l := range lines {
		x := b.X + (b.W-l.width)/2
		baseline := y + float64(l.size)/pointsPerIn*baselineRise
		space := d.spaceWidth()
		for i, w := range l.words {
			if i > 0 {
				x += space
			}
			for _, p := range w.pieces {
				d.setFont(p.style)
				d.pdf.Text(x, baseline, p.text)
				x += p.width
			}
		}
		y += l.height
	}
}

// layout splits texts into words and wraps them greedily at maxWidth.
// Newlines force a break.
func (d *drawer) layout(texts []styledText, maxWidth float64) []line {
	var (
		lines []line
		cur   line
		w     word
		sb    strings.Builder
		st    textStyle
	)
	space := d.spaceWidth()

	flushPiece := func() {
		if sb.Len() == 0 {
			return
		}
		text := d.tr(sb.String())
		d.setFont(st)
		p := piece{text: text, style: st, width: d.pdf.GetStringWidth(text)}
		w.pieces = append(w.pieces, p)
		w.width += p.width
		if st.size > w.size {
			w.size = st.size
		}
		sb.Reset()
	}
	flushLine := func() {
		if cur.size == 0 {
			cur.size = slides.BodySize
		}
		cur.height = float64(cur.size) / pointsPerIn * lineSpacing
		lines = append(lines, cur)
		cur = line{}
	}
	flushWord := func() {
		flushPiece()
		if len(w.pieces) == 0 {
			return
		}
		if len(cur.words) > 0 && cur.width+space+w.width > maxWidth {
			flushLine()
		}
		if len(cur.words) > 0 {
			cur.width += space
		}
		cur.words = append(cur.words, w)
		cur.width += w.width
		if w.size > cur.size {
			cur.size = w.size
		}
		w = word{}
	}

	for _, t := range texts {
		if t.style != st {
			flushPiece()
			st = t.style
		}
		for _, r := range t.text {
			switch {
			case r == '\n':
				flushWord()
				flushLine()
			case unicode.IsSpace(r):
				flushWord()
			default:
				sb.WriteRune(r)
			}
		}
	}
	flushWord()
	if len(cur.words) > 0 || len(lines) == 0 {
		flushLine()
	}
	return lines
}

func (d *drawer) setFont(st textStyle) {
	d.pdf.SetFont(nativeFont, st.fontStyle(), float64(st.size))
	d.pdf.SetTextColor(int(st.color.R), int(st.color.G), int(st.color.B))
}

func (d *drawer) spaceWidth() float64 {
	d.pdf.SetFont(nativeFont, "", slides.BodySize)
	return d.pdf.GetStringWidth(" ")
}

// Compile-time interface check.
var _ Backend = (*Native)(nil)
