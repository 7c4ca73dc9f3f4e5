// Command textbook is the command-line client for the textbook backend.
package main

import (
	"os"

	"textbook-admin/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
