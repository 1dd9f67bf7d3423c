package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-versedeck"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string

	// BuilderOptions are appended after the options derived from flags and
	// config, so tests can swap PDF backends or uploaders.
	BuilderOptions []versedeck.Option
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
	}
}
