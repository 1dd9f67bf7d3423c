package versedeck

// Document defaults applied when the input omits them.
const (
	DefaultTitle    = "Bible Verses Collection"
	DefaultSubtitle = "Selected Scriptures"
)

// Layout defaults.
const (
	DefaultMaxCharsPerChunk = 200
	DefaultBaseName         = "presentation"
)

// Document is a normalized verse document.
type Document struct {
	Title    string
	Subtitle string
	Sections []Section
}

// Section groups verses under an optional heading.
type Section struct {
	Name   string // empty = no section slide
	Verses []Verse
}

// Verse is one scripture entry.
type Verse struct {
	Reference  string
	Text       string
	Highlights []string       // case-insensitive phrases
	LargeText  map[string]int // word -> point size
}

// TextChunk is one slide-sized part of a verse.
type TextChunk struct {
	ReferenceLabel string // reference, plus " (Part i/N)" when split
	Body           string // substring of the verse text
	PartIndex      int    // 1-based
	PartCount      int
}

// StyledRun is a maximal substring sharing one style.
type StyledRun struct {
	Text        string
	Highlighted bool
	FontSize    int // point size override, 0 = none
}

// SlideKind identifies the layout of a plan entry.
type SlideKind int

// Slide kinds.
const (
	SlideTitle SlideKind = iota
	SlideSection
	SlideVerse
)

func (k SlideKind) String() string {
	switch k {
	case SlideTitle:
		return "title"
	case SlideSection:
		return "section"
	case SlideVerse:
		return "verse"
	}
	return "unknown"
}

// SlidePlanEntry describes one slide to render.
// Which fields are set depends on Kind.
type SlidePlanEntry struct {
	Kind SlideKind

	Title    string // SlideTitle
	Subtitle string // SlideTitle

	SectionName string // SlideSection

	ReferenceLabel string      // SlideVerse
	Runs           []StyledRun // SlideVerse
}

// Plan is the renderer-agnostic slide sequence for one deck.
type Plan []SlidePlanEntry

// Count returns the number of entries of the given kind.
func (p Plan) Count(kind SlideKind) int {
	n := 0
	for _, e := range p {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// LayoutConfig holds layout tunables passed to the Planner.
type LayoutConfig struct {
	MaxCharsPerChunk int    // 0 = DefaultMaxCharsPerChunk
	DefaultBaseName  string // "" = DefaultBaseName
}

// DefaultLayoutConfig returns the historical layout defaults.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		MaxCharsPerChunk: DefaultMaxCharsPerChunk,
		DefaultBaseName:  DefaultBaseName,
	}
}

// withDefaults fills zero fields.
func (c LayoutConfig) withDefaults() LayoutConfig {
	if c.MaxCharsPerChunk <= 0 {
		c.MaxCharsPerChunk = DefaultMaxCharsPerChunk
	}
	if c.DefaultBaseName == "" {
		c.DefaultBaseName = DefaultBaseName
	}
	return c
}
