package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	os.Exit(run())
}

func run() int {
	err := newRootCommand().Execute()
	if err == nil {
		return 0
	}
	// Interrupted follow loops and the like exit quietly.
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "reelflow:", err)
	}
	return 1
}
