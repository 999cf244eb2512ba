package main

import (
	"os"

	"github.com/spigell/cupid-matcher/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
