package main

import (
	"os"

	"github.com/naufal/reva/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
