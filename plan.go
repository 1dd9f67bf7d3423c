package versedeck

// Planner turns documents into slide plans.
type Planner struct {
	cfg LayoutConfig
}

// NewPlanner creates a Planner. Zero fields in cfg take their defaults.
func NewPlanner(cfg LayoutConfig) *Planner {
	return &Planner{cfg: cfg.withDefaults()}
}

// Config returns the effective layout configuration.
func (p *Planner) Config() LayoutConfig {
	return p.cfg
}

// BuildPlan builds a plan with the default layout.
func BuildPlan(doc *Document, customTitle string) Plan {
	return NewPlanner(DefaultLayoutConfig()).BuildPlan(doc, customTitle)
}

// BuildPlan sequences the deck: one title entry, then for each section a
// section entry followed by one verse entry per chunk of each verse.
//
// A non-empty customTitle replaces the document title, clears the subtitle,
// and suppresses every section entry. Unnamed sections never get a section
// entry. Entries keep declaration order and are never deduplicated.
func (p *Planner) BuildPlan(doc *Document, customTitle string) Plan {
	if doc == nil {
		doc = &Document{}
	}

	plan := make(Plan, 0, 1+estimateEntries(doc))

	title := SlidePlanEntry{Kind: SlideTitle, Title: doc.Title, Subtitle: doc.Subtitle}
	if customTitle != "" {
		title.Title = customTitle
		title.Subtitle = ""
	}
	plan = append(plan, title)

	for _, section := range doc.Sections {
		if customTitle == "" && section.Name != "" {
			plan = append(plan, SlidePlanEntry{Kind: SlideSection, SectionName: section.Name})
		}
		for _, verse := range section.Verses {
			for _, chunk := range Segment(verse, p.cfg.MaxCharsPerChunk) {
				plan = append(plan, SlidePlanEntry{
					Kind:           SlideVerse,
					ReferenceLabel: chunk.ReferenceLabel,
					Runs:           ResolveSpans(chunk.Body, verse.Highlights, verse.LargeText),
				})
			}
		}
	}

	return plan
}

// Filename derives an output filename using the planner's default base name.
func (p *Planner) Filename(customTitle, inputPath, ext string) string {
	return deriveFilename(customTitle, inputPath, ext, p.cfg.DefaultBaseName)
}

func estimateEntries(doc *Document) int {
	n := 0
	for _, s := range doc.Sections {
		n += 1 + len(s.Verses)
	}
	return n
}
