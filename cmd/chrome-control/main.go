package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/NORMAL-EX/chrome-control/internal/di"
	"github.com/NORMAL-EX/chrome-control/internal/infrastructure/env"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "chrome-control:", err)
		os.Exit(1)
	}
}

func run() error {
	httpAddr := flag.String("http", "", "serve MCP over HTTP on this address instead of stdio")
	flag.Parse()

	envService := env.NewEnvService()
	cfg := di.ConfigFromEnv(envService)
	cfg.Version = version
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}

	container := di.NewContainer(cfg)
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	if cfg.HTTPAddr != "" {
		err = container.Server.RunHTTP(ctx)
	} else {
		err = container.Server.RunStdio(ctx)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
