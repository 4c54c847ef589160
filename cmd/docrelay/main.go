package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/docrelay/internal/app"
	"github.com/samvad-hq/docrelay/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	_ = logger.Close()

	switch {
	case err == nil:
	case errors.Is(err, app.ErrCallFailed):
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "docrelay failed: %v\n", err)
		os.Exit(1)
	}
}
