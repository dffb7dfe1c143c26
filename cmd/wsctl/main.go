package main

import (
	"os"

	"github.com/shah/vscode-team/internal/cli"
)

func main() {
	if err := cli.ExecuteWsctl(); err != nil {
		os.Exit(1)
	}
}
