package pdf

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Backend names accepted by Options.Backend.
const (
	BackendAuto        = "auto"
	BackendLibreOffice = "libreoffice"
	BackendChrome      = "chrome"
	BackendChromedp    = "chromedp"
	BackendNative      = "native"
)

// BackendNames lists the selectable backends, auto first then in fallback order.
var BackendNames = []string{BackendAuto, BackendLibreOffice, BackendChrome, BackendChromedp, BackendNative}

// Named quality levels.
const (
	QualityLow     = 50
	QualityMedium  = 75
	QualityHigh    = 90
	QualityMax     = 100
	DefaultQuality = QualityHigh
)

// PDF/A compliance modes.
const (
	ComplianceNone  = ""
	CompliancePDFA1 = "pdfa-1b"
	CompliancePDFA2 = "pdfa-2b"
	CompliancePDFA3 = "pdfa-3b"
)

// DefaultTimeout bounds a single backend attempt.
const DefaultTimeout = 2 * time.Minute

var rangePattern = regexp.MustCompile(`^\d+(-\d+)?(,\d+(-\d+)?)*$`)

// Options controls PDF export.
type Options struct {
	Backend      string        // auto (default), libreoffice, chrome, chromedp, native
	Quality      int           // 1-100, zero means DefaultQuality
	SlideRange   string        // e.g. "1-3,5"; empty exports all slides
	Password     string        // open password; empty means unencrypted
	Compliance   string        // "", pdfa-1b, pdfa-2b, pdfa-3b
	ExportHidden bool          // include hidden slides (LibreOffice)
	Timeout      time.Duration // per backend attempt, zero means DefaultTimeout
}

// withDefaults returns a copy with zero values replaced.
func (o Options) withDefaults() Options {
	if o.Backend == "" {
		o.Backend = BackendAuto
	}
	if o.Quality == 0 {
		o.Quality = DefaultQuality
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	o.SlideRange = strings.ReplaceAll(o.SlideRange, " ", "")
	return o
}

// Validate checks option values without probing any backend.
func (o Options) Validate() error {
	o = o.withDefaults()
	if !isBackendName(o.Backend) {
		return fmt.Errorf("%w: %q (valid: %s)", ErrUnknownBackend, o.Backend, strings.Join(BackendNames, ", "))
	}
	if o.Quality < 1 || o.Quality > 100 {
		return fmt.Errorf("%w: %d (must be 1-100)", ErrInvalidQuality, o.Quality)
	}
	if _, err := ParseCompliance(o.Compliance); err != nil {
		return err
	}
	if o.SlideRange != "" && !rangePattern.MatchString(o.SlideRange) {
		return fmt.Errorf("%w: %q (expected e.g. 1-3,5)", ErrInvalidRange, o.SlideRange)
	}
	return nil
}

func isBackendName(name string) bool {
	for _, n := range BackendNames {
		if n == name {
			return true
		}
	}
	return false
}

// ParseQuality accepts low, medium, high, max or an integer from 1 to 100.
// Empty input yields DefaultQuality.
func ParseQuality(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultQuality, nil
	case "low":
		return QualityLow, nil
	case "medium":
		return QualityMedium, nil
	case "high":
		return QualityHigh, nil
	case "max":
		return QualityMax, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 100 {
		return 0, fmt.Errorf("%w: %q (use low, medium, high, max or 1-100)", ErrInvalidQuality, s)
	}
	return n, nil
}

// ParseCompliance normalizes a compliance mode. "none" and "" disable PDF/A.
func ParseCompliance(s string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", "none":
		return ComplianceNone, nil
	case CompliancePDFA1, CompliancePDFA2, CompliancePDFA3:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q (valid: pdfa-1b, pdfa-2b, pdfa-3b)", ErrInvalidCompliance, s)
	}
}

// SelectPages resolves a slide range against a page count and returns the
// selected 1-based pages in ascending order. Pages past total are dropped.
// An empty range selects every page.
func SelectPages(spec string, total int) ([]int, error) {
	spec = strings.ReplaceAll(spec, " ", "")
	if spec == "" {
		pages := make([]int, total)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages, nil
	}
	if !rangePattern.MatchString(spec) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRange, spec)
	}

	seen := make(map[int]bool)
	for _, part := range strings.Split(spec, ",") {
		lo, hi := part, part
		if i := strings.IndexByte(part, '-'); i >= 0 {
			lo, hi = part[:i], part[i+1:]
		}
		from, _ := strconv.Atoi(lo)
		to, _ := strconv.Atoi(hi)
		if from < 1 || to < from {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRange, part)
		}
		for p := from; p <= to && p <= total; p++ {
			seen[p] = true
		}
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("%w: %q selects none of %d slides", ErrInvalidRange, spec, total)
	}

	pages := make([]int, 0, len(seen))
	for p := range seen {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages, nil
}
