package slides

// RGB is a color with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as six uppercase hex digits, e.g. "FF8C00".
func (c RGB) Hex() string {
	const digits = "0123456789ABCDEF"
	b := []byte{
		digits[c.R>>4], digits[c.R&0x0F],
		digits[c.G>>4], digits[c.G&0x0F],
		digits[c.B>>4], digits[c.B&0x0F],
	}
	return string(b)
}

// Box is a rectangle in inches, measured from the top-left slide corner.
type Box struct {
	X, Y, W, H float64
}

// Slide geometry (4:3).
const (
	SlideWidthIn  = 10.0
	SlideHeightIn = 7.5
)

// Font sizes in points.
const (
	TitleSize     = 44
	SubtitleSize  = 24
	SectionSize   = 36
	BodySize      = 24
	ReferenceSize = 18
)

// Theme colors.
var (
	TextColor      = RGB{0, 0, 0}
	SubtitleColor  = RGB{89, 89, 89}
	SectionColor   = RGB{0, 51, 102}
	HighlightColor = RGB{255, 140, 0}
	ReferenceColor = RGB{100, 100, 100}
)

// Layout boxes.
var (
	TitleBox     = Box{X: 0.5, Y: 2.3, W: 9, H: 1.5}
	SubtitleBox  = Box{X: 0.5, Y: 4.0, W: 9, H: 1}
	SectionBox   = Box{X: 0.5, Y: 3.0, W: 9, H: 1.5}
	BodyBox      = Box{X: 1, Y: 2, W: 8, H: 3}
	ReferenceBox = Box{X: 1, Y: 5.5, W: 8, H: 1}
)

// EMUPerInch converts inches to OOXML English Metric Units.
const EMUPerInch = 914400

// EMU converts inches to EMU.
func EMU(in float64) int64 {
	return int64(in*EMUPerInch + 0.5)
}
