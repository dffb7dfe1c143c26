package main

import (
	"os"

	"github.com/shah/vscode-team/internal/cli"
)

func main() {
	if err := cli.ExecuteConfigctl(); err != nil {
		os.Exit(1)
	}
}
