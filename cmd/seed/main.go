package main

import (
	"os"

	"github.com/oggyb/eventswipe/internal/cli"
	"github.com/oggyb/eventswipe/internal/config"
)

func main() {
	if err := cli.NewSeedCommand(config.New()).Execute(); err != nil {
		os.Exit(1)
	}
}
