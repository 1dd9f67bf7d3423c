// Package versedeck builds presentation decks from structured verse documents.
//
// # Quick Start
//
// Load a document, create a builder, build, and close when done:
//
//	doc, err := versedeck.Load("sermon.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	b, err := versedeck.NewBuilder()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Close()
//
//	res, err := b.Build(ctx, versedeck.Input{
//	    Document:  doc,
//	    InputPath: "sermon.yaml",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.DeckPath) // sermon.pptx
//
// # Build Pipeline
//
//  1. Loading: JSON or YAML is parsed and checked against the document schema
//  2. Planning: a title slide, one slide per section, verses split into chunks
//  3. Styling: highlight and large-text phrases resolve to styled runs
//  4. Rendering: the plan becomes a .pptx package or a standalone HTML deck
//  5. Export (optional): a PDF through LibreOffice, Chrome, chromedp, or gofpdf
//  6. Upload (optional): the deck and PDF are published to Google Drive or S3
//
// Steps 1 to 3 are pure. Planning the same document twice yields the same
// plan; BuildPlan is usable on its own for previews and tests.
//
// # Configuration
//
// Use functional options to customize the builder:
//
//	b, err := versedeck.NewBuilder(
//	    versedeck.WithLayout(versedeck.LayoutConfig{MaxCharsPerChunk: 150}),
//	    versedeck.WithTimeout(2 * time.Minute),
//	    versedeck.WithStyle("dark"),
//	    versedeck.WithLogger(logger),
//	)
//
// Per-build options are passed via Input:
//
//	res, err := b.Build(ctx, versedeck.Input{
//	    Document:   doc,
//	    Format:     versedeck.FormatHTML,
//	    OutputPath: "out/",
//	    PDF:        &versedeck.PDFOptions{SlideRange: "1-5"},
//	    Upload:     &versedeck.UploadOptions{Credentials: "sa.json"},
//	})
//
// # Error Handling
//
// Errors are typed and match sentinels with errors.Is:
//
//	var se *versedeck.SchemaError
//	if errors.As(err, &se) {
//	    fmt.Println(se.Location())
//	}
//	if errors.Is(err, versedeck.ErrConversion) {
//	    // deck was written, PDF export failed
//	}
//
// # Thread Safety
//
// A Builder is safe for concurrent Build calls once created. The Chrome
// backend shares one browser across calls; Close releases it.
package versedeck
