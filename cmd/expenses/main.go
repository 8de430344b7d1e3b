package main

import (
	"context"
	"os"

	"expensetracker/internal/cli"
)

func main() {
	// Load .env file for local development (ignore errors when absent)
	cli.LoadEnvFile()

	os.Exit(cli.Execute(context.Background(), cli.Options{}))
}
