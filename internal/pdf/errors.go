package pdf

import "errors"

// Sentinel errors for PDF conversion.
var (
	ErrUnknownBackend     = errors.New("unknown PDF backend")
	ErrBackendUnavailable = errors.New("PDF backend not available")
	ErrNoBackend          = errors.New("no PDF backend available")
	ErrUnsupportedOption  = errors.New("option not supported by PDF backend")
	ErrUnsupportedInput   = errors.New("deck format not supported by PDF backend")
	ErrInvalidQuality     = errors.New("invalid PDF quality")
	ErrInvalidCompliance  = errors.New("invalid PDF compliance mode")
	ErrInvalidRange       = errors.New("invalid slide range")
	ErrNilRequest         = errors.New("nil conversion request")
	ErrEmptyOutput        = errors.New("backend produced no PDF")
	ErrBrowserConnect     = errors.New("failed to connect to browser")
	ErrPageLoad           = errors.New("failed to load page")
	ErrPDFGeneration      = errors.New("PDF generation failed")
)
