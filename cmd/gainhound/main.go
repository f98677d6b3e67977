package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gainhound/internal/pipeline"
	"gainhound/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return
	}

	var coded *exitCodeError
	if errors.As(err, &coded) {
		os.Exit(coded.code)
	}
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
	}
	if services.Fatal(err) {
		os.Exit(pipeline.ExitConfigError)
	}
	os.Exit(pipeline.ExitFailure)
}
