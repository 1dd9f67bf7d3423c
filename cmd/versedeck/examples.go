package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alnah/go-versedeck"
)

// runExamples lists the bundled example documents with their slide counts.
func runExamples(args []string, env *Environment) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: examples takes no arguments", ErrUsage)
	}

	names := versedeck.ListExamples()
	if len(names) == 0 {
		fmt.Fprintln(env.Stdout, "No bundled examples.")
		return nil
	}

	for _, name := range names {
		base := strings.TrimSuffix(name, filepath.Ext(name))
		doc, err := versedeck.LoadExample(name)
		if err != nil {
			return fmt.Errorf("example %s: %w", base, err)
		}
		fmt.Fprintf(env.Stdout, "  %-20s %s (%d slides)\n", base, doc.Title, len(versedeck.BuildPlan(doc, "")))
	}
	fmt.Fprintln(env.Stdout)
	fmt.Fprintln(env.Stdout, "Build one with: versedeck --example <name>")
	return nil
}
