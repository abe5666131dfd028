package main

import (
	"fmt"
	"os"

	"github.com/outofoffice3/policy-validator-action/internal/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Unexpected error occurred. %v\n", err)
		os.Exit(1)
	}
}
