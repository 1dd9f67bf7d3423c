package main

// Notes:
// - parseBuildFlags: flag values, positional args and usage errors.
// - --help surfaces flag.ErrHelp wrapped in ErrUsage so callers can tell it apart.

import (
	"bytes"
	"errors"
	"testing"

	flag "github.com/spf13/pflag"
)

// ---------------------------------------------------------------------------
// TestParseBuildFlags
// ---------------------------------------------------------------------------

func TestParseBuildFlags(t *testing.T) {
	t.Parallel()

	t.Run("all groups", func(t *testing.T) {
		t.Parallel()

		var stderr bytes.Buffer
		f, args, err := parseBuildFlags([]string{
			"verses.yaml",
			"-o", "out/", "-t", "Easter", "--format", "html", "--max-chars", "150",
			"--pdf", "--pdf-backend", "chromedp", "--pdf-quality", "high", "--pdf-pages", "1-3",
			"--pdf-password", "pw", "--pdf-compliance", "pdfa-1b", "--pdf-hidden",
			"--upload", "--upload-backend", "gdrive", "--credentials", "sa.json",
			"--folder-id", "abc", "--folder-name", "Easter",
			"--style", "dark", "--asset-path", "assets",
			"--timeout", "2m", "-c", "church", "-v", "--log-format", "json", "--log-file", "deck.log",
		}, &stderr)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(args) != 1 || args[0] != "verses.yaml" {
			t.Errorf("args = %v", args)
		}
		if f.input.output != "out/" || f.input.title != "Easter" || f.input.format != "html" || f.input.maxChars != 150 {
			t.Errorf("input = %+v", f.input)
		}
		want := pdfFlags{enabled: true, backend: "chromedp", quality: "high", pages: "1-3", password: "pw", compliance: "pdfa-1b", hidden: true}
		if f.pdf != want {
			t.Errorf("pdf = %+v, want %+v", f.pdf, want)
		}
		wantUp := uploadFlags{enabled: true, backend: "gdrive", credentials: "sa.json", folderID: "abc", folderName: "Easter"}
		if f.upload != wantUp {
			t.Errorf("upload = %+v, want %+v", f.upload, wantUp)
		}
		if f.assets.style != "dark" || f.assets.assetPath != "assets" || f.timeout != "2m" {
			t.Errorf("assets = %+v timeout = %q", f.assets, f.timeout)
		}
		if f.common.config != "church" || !f.common.verbose || f.common.logFormat != "json" || f.common.logFile != "deck.log" {
			t.Errorf("common = %+v", f.common)
		}
	})

	t.Run("example shorthand", func(t *testing.T) {
		t.Parallel()

		f, args, err := parseBuildFlags([]string{"-e", "promises"}, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.input.example != "promises" || len(args) != 0 {
			t.Errorf("example = %q, args = %v", f.input.example, args)
		}
	})

	errTests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--landscape"}},
		{"quiet with verbose", []string{"-q", "-v"}},
		{"negative max chars", []string{"--max-chars", "-3"}},
		{"non-numeric max chars", []string{"--max-chars", "lots"}},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := parseBuildFlags(tt.args, &bytes.Buffer{})
			if !errors.Is(err, ErrUsage) {
				t.Fatalf("expected ErrUsage, got %v", err)
			}
		})
	}

	t.Run("help", func(t *testing.T) {
		t.Parallel()

		var stderr bytes.Buffer
		_, _, err := parseBuildFlags([]string{"-h"}, &stderr)
		if !errors.Is(err, flag.ErrHelp) {
			t.Fatalf("expected flag.ErrHelp, got %v", err)
		}
		if stderr.Len() == 0 {
			t.Error("help should print usage")
		}
	})
}
