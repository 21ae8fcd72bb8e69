package main

import (
	"os"

	"github.com/primelife/signup/cmd/signup/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
