package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, afero.NewOsFs(), os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
