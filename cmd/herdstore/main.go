// Command herdstore stores agent execution and decision records.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/herd-ag/herdstore/internal/cli"
)

func main() {
	// Load .env file if present; HERDSTORE_* variables feed the config.
	_ = godotenv.Load()

	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
