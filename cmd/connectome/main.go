package main

import (
	"os"

	"github.com/dd0wney/connectome-metrics/cmd/connectome/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
