package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	validatecmd "github.com/mechforge/mechforge/internal/cmd/validate"
	"github.com/mechforge/mechforge/internal/platform/config"
)

// main validates a unit design from a file or the catalog.
func main() {
	cfg, err := validatecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[VALIDATE] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := validatecmd.Run(ctx, cfg, os.Stdout); err != nil {
		if errors.Is(err, validatecmd.ErrInvalidUnit) {
			os.Exit(1)
		}
		config.Exitf("validate: %v", err)
	}
}
