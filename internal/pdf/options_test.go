package pdf

import (
	"errors"
	"slices"
	"testing"
)

func TestParseQuality(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    int
		wantErr error
	}{
		{input: "", want: DefaultQuality},
		{input: "low", want: 50},
		{input: "Medium", want: 75},
		{input: "high", want: 90},
		{input: "max", want: 100},
		{input: "1", want: 1},
		{input: " 64 ", want: 64},
		{input: "0", wantErr: ErrInvalidQuality},
		{input: "101", wantErr: ErrInvalidQuality},
		{input: "ultra", wantErr: ErrInvalidQuality},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseQuality(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseQuality(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseQuality(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCompliance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    string
		wantErr error
	}{
		{input: "", want: ComplianceNone},
		{input: "none", want: ComplianceNone},
		{input: "PDFA-2B", want: CompliancePDFA2},
		{input: "pdfa-3b", want: CompliancePDFA3},
		{input: "pdfa-4", wantErr: ErrInvalidCompliance},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseCompliance(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseCompliance(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCompliance(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestOptions_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    Options
		wantErr error
	}{
		{name: "zero value", opts: Options{}},
		{name: "all set", opts: Options{Backend: BackendNative, Quality: 75, SlideRange: "1-3, 5", Password: "x"}},
		{name: "unknown backend", opts: Options{Backend: "word"}, wantErr: ErrUnknownBackend},
		{name: "quality too high", opts: Options{Quality: 200}, wantErr: ErrInvalidQuality},
		{name: "negative quality", opts: Options{Quality: -1}, wantErr: ErrInvalidQuality},
		{name: "bad compliance", opts: Options{Compliance: "pdfx"}, wantErr: ErrInvalidCompliance},
		{name: "bad range", opts: Options{SlideRange: "1-"}, wantErr: ErrInvalidRange},
		{name: "letters in range", opts: Options{SlideRange: "a"}, wantErr: ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if err := tt.opts.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSelectPages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		spec    string
		total   int
		want    []int
		wantErr error
	}{
		{name: "empty selects all", spec: "", total: 3, want: []int{1, 2, 3}},
		{name: "single page", spec: "2", total: 3, want: []int{2}},
		{name: "range and page", spec: "1-2,4", total: 5, want: []int{1, 2, 4}},
		{name: "overlap deduplicated", spec: "1-3,2-4", total: 5, want: []int{1, 2, 3, 4}},
		{name: "unordered input sorted", spec: "4,1", total: 5, want: []int{1, 4}},
		{name: "past end dropped", spec: "2-10", total: 3, want: []int{2, 3}},
		{name: "nothing left", spec: "7-9", total: 3, wantErr: ErrInvalidRange},
		{name: "zero page", spec: "0-2", total: 3, wantErr: ErrInvalidRange},
		{name: "reversed", spec: "3-1", total: 3, wantErr: ErrInvalidRange},
		{name: "syntax", spec: "1--2", total: 3, wantErr: ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := SelectPages(tt.spec, tt.total)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SelectPages(%q, %d) error = %v, want %v", tt.spec, tt.total, err, tt.wantErr)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("SelectPages(%q, %d) = %v, want %v", tt.spec, tt.total, got, tt.want)
			}
		})
	}
}
