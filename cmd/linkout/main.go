package main

import (
	"os"

	"github.com/linkout/linkout/cmd/linkout/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
