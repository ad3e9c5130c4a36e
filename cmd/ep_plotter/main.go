package main

import (
	"os"

	"github.com/user/ep_plotter_go/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
