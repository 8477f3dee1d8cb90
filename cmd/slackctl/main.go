package main

import (
	"os"

	"github.com/GriffinCanCode/slackwire/cmd/slackctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
