// Package pdf converts rendered decks to PDF.
//
// # Backends
//
//	Backend (interface)
//	    │
//	    ├── LibreOffice  - soffice --convert-to pdf on the .pptx deck
//	    ├── Rod          - headless Chrome via go-rod, printing the HTML deck
//	    ├── Chromedp     - headless Chrome via chromedp, printing the HTML deck
//	    └── Native       - draws slides directly with gofpdf
//
// Converter picks a backend by name or, for "auto", tries available backends
// in the order above and falls back to the next one on failure.
//
// # Options
//
// Slide range and password are applied natively by LibreOffice and Native.
// For the Chrome backends the Converter applies them afterwards with pdfcpu.
// PDF/A compliance is only available through LibreOffice. Quality controls
// JPEG compression in LibreOffice and is ignored elsewhere, since decks carry
// no images.
package pdf
