package versedeck

// Notes:
// - Segment: greedy whitespace split, part labels, oversized words
// - the concatenation invariant is checked on every case: bodies joined by a
//   single space equal the verse words joined by a single space
// - lengths are counted in runes, not bytes

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// words4 returns n four-letter words separated by single spaces.
func words4(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = "abcd"
	}
	return strings.Join(w, " ")
}

// ---------------------------------------------------------------------------
// TestSegment - Chunking
// ---------------------------------------------------------------------------

func TestSegment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		text       string
		maxChars   int
		wantLabels []string
		wantLens   []int // rune length of each body
	}{
		{
			name:       "short text is one chunk",
			text:       "Jesus wept.",
			maxChars:   200,
			wantLabels: []string{"John 11:35"},
			wantLens:   []int{11},
		},
		{
			name:       "exactly max chars is one chunk",
			text:       words4(40), // 199 chars
			maxChars:   199,
			wantLabels: []string{"John 11:35"},
			wantLens:   []int{199},
		},
		{
			name:       "split in two",
			text:       words4(50), // 249 chars
			maxChars:   200,
			wantLabels: []string{"John 11:35 (Part 1/2)", "John 11:35 (Part 2/2)"},
			wantLens:   []int{199, 49},
		},
		{
			name:     "split in three",
			text:     words4(10), // 49 chars
			maxChars: 20,
			wantLabels: []string{
				"John 11:35 (Part 1/3)",
				"John 11:35 (Part 2/3)",
				"John 11:35 (Part 3/3)",
			},
			wantLens: []int{19, 19, 9},
		},
		{
			name:       "oversized word stays whole",
			text:       "aaaaaaaaaa b",
			maxChars:   5,
			wantLabels: []string{"John 11:35 (Part 1/2)", "John 11:35 (Part 2/2)"},
			wantLens:   []int{10, 1},
		},
		{
			name:       "surrounding whitespace does not force a split",
			text:       "  ab cd  ",
			maxChars:   6,
			wantLabels: []string{"John 11:35"},
			wantLens:   []int{5},
		},
		{
			name:       "zero max chars uses default",
			text:       words4(50),
			maxChars:   0,
			wantLabels: []string{"John 11:35 (Part 1/2)", "John 11:35 (Part 2/2)"},
			wantLens:   []int{199, 49},
		},
		{
			name:       "runes not bytes",
			text:       "éééé éééé",
			maxChars:   9,
			wantLabels: []string{"John 11:35"},
			wantLens:   []int{9},
		},
		{
			name:       "empty text",
			text:       "",
			maxChars:   10,
			wantLabels: []string{"John 11:35"},
			wantLens:   []int{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := Verse{Reference: "John 11:35", Text: tt.text}
			chunks := Segment(v, tt.maxChars)

			if len(chunks) != len(tt.wantLabels) {
				t.Fatalf("got %d chunks, want %d: %+v", len(chunks), len(tt.wantLabels), chunks)
			}

			bodies := make([]string, len(chunks))
			for i, c := range chunks {
				if c.ReferenceLabel != tt.wantLabels[i] {
					t.Errorf("chunk %d label = %q, want %q", i, c.ReferenceLabel, tt.wantLabels[i])
				}
				if n := utf8.RuneCountInString(c.Body); n != tt.wantLens[i] {
					t.Errorf("chunk %d length = %d, want %d", i, n, tt.wantLens[i])
				}
				if c.PartIndex != i+1 || c.PartCount != len(chunks) {
					t.Errorf("chunk %d part = %d/%d, want %d/%d", i, c.PartIndex, c.PartCount, i+1, len(chunks))
				}
				if !strings.Contains(tt.text, c.Body) {
					t.Errorf("chunk %d body %q is not a substring of the text", i, c.Body)
				}
				bodies[i] = c.Body
			}

			if len(chunks) > 1 {
				got := strings.Join(bodies, " ")
				want := strings.Join(strings.Fields(tt.text), " ")
				if got != want {
					t.Errorf("joined bodies = %q, want %q", got, want)
				}
			}
		})
	}
}

func TestSegment_ChunksFitUnlessOversized(t *testing.T) {
	t.Parallel()

	text := "For I know the plans I have for you, declares the Lord, plans to prosper you and not to harm you, plans to give you hope and a future."
	for _, maxChars := range []int{10, 25, 40, 80} {
		for _, c := range Segment(Verse{Reference: "Jer 29:11", Text: text}, maxChars) {
			n := utf8.RuneCountInString(c.Body)
			if n > maxChars && strings.ContainsAny(c.Body, " \t\n") {
				t.Errorf("max %d: chunk %q has %d chars and several words", maxChars, c.Body, n)
			}
		}
	}
}
