// Package slides holds the renderer-facing deck model and the visual theme
// shared by every renderer.
package slides

// Kind identifies the layout of a slide.
type Kind int

// Slide kinds.
const (
	KindTitle Kind = iota
	KindSection
	KindVerse
)

// String returns the lowercase kind name used in CSS classes and logs.
func (k Kind) String() string {
	switch k {
	case KindTitle:
		return "title"
	case KindSection:
		return "section"
	case KindVerse:
		return "verse"
	default:
		return "unknown"
	}
}

// Run is a piece of verse text with uniform styling.
// FontSize is in points; zero means the theme's body size.
type Run struct {
	Text        string
	Highlighted bool
	FontSize    int
}

// Bold reports whether the run is drawn in bold.
func (r Run) Bold() bool {
	return r.Highlighted || r.FontSize > 0
}

// Slide is one rendered slide.
// Title holds the deck title on title slides and the section name on section
// slides; Reference and Runs are only set on verse slides.
type Slide struct {
	Kind      Kind
	Title     string
	Subtitle  string
	Reference string
	Runs      []Run
}

// IsTitle reports whether s is a title slide.
func (s Slide) IsTitle() bool { return s.Kind == KindTitle }

// IsSection reports whether s is a section slide.
func (s Slide) IsSection() bool { return s.Kind == KindSection }

// Text returns the concatenated run text of a verse slide.
func (s Slide) Text() string {
	n := 0
	for _, r := range s.Runs {
		n += len(r.Text)
	}
	buf := make([]byte, 0, n)
	for _, r := range s.Runs {
		buf = append(buf, r.Text...)
	}
	return string(buf)
}

// Deck is an ordered list of slides.
type Deck struct {
	Title  string
	Slides []Slide
}
