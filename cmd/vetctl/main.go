// Command vetctl is the terminal client for the clinic backend.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/salvaclients/vet-admin/internal/cli"
	"github.com/salvaclients/vet-admin/internal/pkg/config"
	"github.com/salvaclients/vet-admin/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "vetctl:", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadCLI(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "vetctl"})

	app, err := cli.NewApp(cfg, log)
	if err != nil {
		return err
	}
	return cli.Execute(ctx, app, os.Args[1:])
}
