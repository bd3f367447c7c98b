package main

import (
	"os"

	"github.com/natter-sh/natter/cmd/natter/commands"
)

var version = "dev"

func main() {
	if err := commands.Execute(version); err != nil {
		os.Exit(1)
	}
}
