package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/tjfontaine/mrr-go/internal/commands"
)

const (
	exitOK        = 0
	exitFailure   = 1 // bad input, config, transport or decode failure
	exitAPIStatus = 2 // the API answered with a status other than 200
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	defer a.close()

	root := newRootCommand(a, commands.Builtin)
	if err := root.Run(ctx, args); err != nil {
		fmt.Fprintf(stderr, "mrr: %v\n", err)

		var se *statusError
		if errors.As(err, &se) {
			return exitAPIStatus
		}
		return exitFailure
	}
	return exitOK
}
