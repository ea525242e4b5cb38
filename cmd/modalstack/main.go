// Package main provides the entry point for the modalstack demo.
//
// modalstack is a terminal screen that stacks dialogs, drawers and confirms
// on top of a host view through an imperative overlay manager.
//
// Usage:
//
//	modalstack [options]
//	modalstack init [path]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
