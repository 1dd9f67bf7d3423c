package pdf

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"

	"github.com/alnah/go-versedeck/internal/slides"
)

// writeTestPDF writes a real PDF with the given number of pages.
func writeTestPDF(t *testing.T, path string, pages int) {
	t.Helper()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	for i := 0; i < pages; i++ {
		pdf.AddPage()
		pdf.Text(20, 20, "page")
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatalf("writing test PDF: %v", err)
	}
}

// fakeBackend writes a PDF with one page per deck slide, or fails.
type fakeBackend struct {
	name      string
	available bool
	features  Features
	err       error
	calls     int
	t         *testing.T
}

func (f *fakeBackend) Name() string       { return f.name }
func (f *fakeBackend) Features() Features { return f.features }
func (f *fakeBackend) Probe() Status {
	return Status{Name: f.name, Available: f.available}
}

func (f *fakeBackend) Convert(_ context.Context, req *Request, outPath string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	pages := 1
	if req.Deck != nil && len(req.Deck.Slides) > 0 {
		pages = len(req.Deck.Slides)
	}
	writeTestPDF(f.t, outPath, pages)
	return nil
}

func sampleDeck() *slides.Deck {
	return &slides.Deck{
		Title: "Faith",
		Slides: []slides.Slide{
			{Kind: slides.KindTitle, Title: "Faith", Subtitle: "Hebrews 11"},
			{Kind: slides.KindSection, Title: "Assurance"},
			{
				Kind:      slides.KindVerse,
				Reference: "Hebrews 11:1 (Part 1/2)",
				Runs: []slides.Run{
					{Text: "Now "},
					{Text: "faith", FontSize: 40},
					{Text: " is confidence in what we "},
					{Text: "hope", Highlighted: true},
					{Text: " for\nand assurance about what we do not see."},
				},
			},
			{Kind: slides.KindVerse, Reference: "Hebrews 11:1 (Part 2/2)", Runs: []slides.Run{{Text: "Amen. Čeština ✝"}}},
		},
	}
}

// isEncrypted reports whether the PDF at path declares an encryption dictionary.
func isEncrypted(t *testing.T, path string) bool {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return strings.Contains(string(data), "/Encrypt")
}
