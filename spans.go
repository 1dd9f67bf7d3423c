package versedeck

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// matchKind orders match priority: lower wins.
type matchKind int

const (
	matchLarge matchKind = iota
	matchHighlight
)

// match is a half-open byte interval of the source text.
type match struct {
	start, end int
	kind       matchKind
	size       int // font size for matchLarge
}

// ResolveSpans tiles text into styled runs.
//
// Every highlight phrase and every largeText key is searched
// case-insensitively; each occurrence is a candidate interval. Overlaps are
// resolved by priority: large-text beats highlight, then the earliest start,
// then the longest match. A losing candidate is dropped whole, never
// truncated. Characters outside the surviving intervals become plain runs.
//
// Concatenating the Text of the returned runs always reproduces text.
// Phrases are searched as given; blank phrases are ignored.
func ResolveSpans(text string, highlights []string, largeText map[string]int) []StyledRun {
	if text == "" {
		return nil
	}

	candidates := collectMatches(text, highlights, largeText)
	accepted := selectMatches(candidates)

	runs := make([]StyledRun, 0, 2*len(accepted)+1)
	pos := 0
	for _, m := range accepted {
		if m.start > pos {
			runs = append(runs, StyledRun{Text: text[pos:m.start]})
		}
		run := StyledRun{Text: text[m.start:m.end]}
		switch m.kind {
		case matchLarge:
			run.FontSize = m.size
		case matchHighlight:
			run.Highlighted = true
		}
		runs = append(runs, run)
		pos = m.end
	}
	if pos < len(text) {
		runs = append(runs, StyledRun{Text: text[pos:]})
	}
	return runs
}

// collectMatches finds every occurrence of every phrase and key.
// Keys are visited in sorted order so results do not depend on map iteration.
func collectMatches(text string, highlights []string, largeText map[string]int) []match {
	var out []match

	keys := make([]string, 0, len(largeText))
	for k := range largeText {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		size := largeText[k]
		if size <= 0 {
			continue
		}
		for _, iv := range findFold(text, searchPhrase(k)) {
			out = append(out, match{start: iv[0], end: iv[1], kind: matchLarge, size: size})
		}
	}

	for _, h := range highlights {
		for _, iv := range findFold(text, searchPhrase(h)) {
			out = append(out, match{start: iv[0], end: iv[1], kind: matchHighlight})
		}
	}
	return out
}

// selectMatches keeps the highest-priority non-overlapping candidates and
// returns them ordered by start offset.
func selectMatches(candidates []match) []match {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.kind != b.kind {
			return a.kind < b.kind
		}
		if a.start != b.start {
			return a.start < b.start
		}
		return a.end-a.start > b.end-b.start
	})

	var accepted []match
	for _, c := range candidates {
		if !overlapsAny(c, accepted) {
			accepted = append(accepted, c)
		}
	}

	sort.Slice(accepted, func(i, j int) bool {
		return accepted[i].start < accepted[j].start
	})
	return accepted
}

func overlapsAny(c match, accepted []match) bool {
	for _, a := range accepted {
		if c.start < a.end && a.start < c.end {
			return true
		}
	}
	return false
}

// searchPhrase returns the phrase to search for, or "" when it is blank.
// Surrounding spaces are kept so " the " only matches a whole word.
func searchPhrase(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

// findFold returns the byte intervals of every case-insensitive occurrence
// of phrase in text, overlapping occurrences included.
func findFold(text, phrase string) [][2]int {
	if phrase == "" {
		return nil
	}
	var out [][2]int
	for i := 0; i < len(text); {
		if end, ok := matchFoldAt(text, i, phrase); ok {
			out = append(out, [2]int{i, end})
		}
		_, w := utf8.DecodeRuneInString(text[i:])
		i += w
	}
	return out
}

// matchFoldAt reports whether phrase matches text starting at byte i under
// simple Unicode case folding, and where the match ends.
func matchFoldAt(text string, i int, phrase string) (int, bool) {
	j := 0
	for j < len(phrase) {
		if i >= len(text) {
			return 0, false
		}
		tr, tw := utf8.DecodeRuneInString(text[i:])
		pr, pw := utf8.DecodeRuneInString(phrase[j:])
		if !equalFoldRune(tr, pr) {
			return 0, false
		}
		i += tw
		j += pw
	}
	return i, true
}

func equalFoldRune(a, b rune) bool {
	if a == b {
		return true
	}
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}
