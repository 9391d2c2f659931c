package main

import (
	"os"

	"github.com/privmind/therapy-svc/internal/cli"
)

func main() {
	if !cli.Run(os.Args) {
		os.Exit(1)
	}
}
