package main

import (
	"os"

	"github.com/shah/vscode-team/internal/cli"
)

func main() {
	if err := cli.ExecuteProjectctl(); err != nil {
		os.Exit(1)
	}
}
