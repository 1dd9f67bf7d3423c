package versedeck

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// word is a whitespace-delimited token located in the source text.
// Byte offsets slice the text; rune offsets measure it.
type word struct {
	start, end         int // byte offsets, half-open
	runeStart, runeEnd int // rune offsets, half-open
}

// Segment splits a verse into slide-sized chunks.
//
// Text that fits in maxChars characters yields one chunk with the reference
// unchanged. Longer text is split greedily on whitespace: words accumulate
// until the next one would push the chunk past maxChars. Words are never cut,
// so a single word longer than maxChars becomes its own oversized chunk.
// Each body is an exact substring of the verse text; the whitespace between
// two chunks is dropped. Split chunks are labeled "<reference> (Part i/N)".
//
// maxChars <= 0 selects DefaultMaxCharsPerChunk.
func Segment(v Verse, maxChars int) []TextChunk {
	if maxChars <= 0 {
		maxChars = DefaultMaxCharsPerChunk
	}

	if utf8.RuneCountInString(v.Text) <= maxChars {
		return []TextChunk{singleChunk(v)}
	}

	words := splitWords(v.Text)
	if len(words) == 0 {
		return []TextChunk{singleChunk(v)}
	}

	// Pass 1: partition words into bodies.
	var bodies []string
	first, last := words[0], words[0]
	for _, w := range words[1:] {
		if w.runeEnd-first.runeStart > maxChars {
			bodies = append(bodies, v.Text[first.start:last.end])
			first = w
		}
		last = w
	}
	bodies = append(bodies, v.Text[first.start:last.end])

	if len(bodies) == 1 {
		// Leading/trailing whitespace pushed the text over the limit,
		// the words themselves fit.
		return []TextChunk{{
			ReferenceLabel: v.Reference,
			Body:           bodies[0],
			PartIndex:      1,
			PartCount:      1,
		}}
	}

	// Pass 2: label now that the total is known.
	chunks := make([]TextChunk, len(bodies))
	for i, body := range bodies {
		chunks[i] = TextChunk{
			ReferenceLabel: partLabel(v.Reference, i+1, len(bodies)),
			Body:           body,
			PartIndex:      i + 1,
			PartCount:      len(bodies),
		}
	}
	return chunks
}

func singleChunk(v Verse) TextChunk {
	return TextChunk{
		ReferenceLabel: v.Reference,
		Body:           v.Text,
		PartIndex:      1,
		PartCount:      1,
	}
}

func partLabel(reference string, i, n int) string {
	return fmt.Sprintf("%s (Part %d/%d)", reference, i, n)
}

// splitWords returns the whitespace-delimited words of s in order.
func splitWords(s string) []word {
	var words []word
	inWord := false
	var cur word
	runeIdx := 0
	for byteIdx, r := range s {
		space := unicode.IsSpace(r)
		switch {
		case !space && !inWord:
			cur = word{start: byteIdx, runeStart: runeIdx}
			inWord = true
		case space && inWord:
			cur.end, cur.runeEnd = byteIdx, runeIdx
			words = append(words, cur)
			inWord = false
		}
		runeIdx++
	}
	if inWord {
		cur.end, cur.runeEnd = len(s), runeIdx
		words = append(words, cur)
	}
	return words
}
