// Command acvinq is a personal activity logger that periodically asks what
// you are doing and records the answers in a local SQLite database.
package main

import (
	"context"
	"os"

	"github.com/roach88/acvinq/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
