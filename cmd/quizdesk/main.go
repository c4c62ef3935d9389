package main

import (
	"os"

	"github.com/aussiebroadwan/quizdesk/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
