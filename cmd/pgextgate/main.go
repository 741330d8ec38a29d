package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/pgops-dev/pgextgate/internal/cli"
	"github.com/pgops-dev/pgextgate/pkg/pgextgate"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(pgextgate.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(pgextgate.ExitCodeForError(err))
	}
}
