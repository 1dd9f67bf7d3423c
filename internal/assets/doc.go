// Package assets provides deck styles, the HTML deck template, and bundled
// example verse documents.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in styles)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the HTML deck renderer. It tries the
// custom FilesystemLoader first and falls back to EmbeddedLoader when the
// asset is not found, so a custom directory may override a single style.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css      # deck styles (e.g., dark.css)
//	└── templates/
//	    └── {name}.html     # deck page templates (e.g., deck.html)
//
// Examples are embedded only and are listed with ListExamples.
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
