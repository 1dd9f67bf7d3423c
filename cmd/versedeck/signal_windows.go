//go:build windows

package main

import (
	"context"
	"os"
	"os/signal"
)

// notifyContext cancels an in-flight build on interrupt.
// syscall.SIGTERM is not available on Windows.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}
