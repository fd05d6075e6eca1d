package main

import (
	"context"
	"log"
	"os"

	"github.com/heimdex/bsi-exporter/internal/cli"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	return cli.NewRootCommand(os.Stdout, os.Stderr).Execute(context.Background(), os.Args[1:])
}
