// Command mbgsense-predict classifies comments from the terminal
package main

import (
	"os"

	"mbgsense/cmd/mbgsense-predict/commands"
	"mbgsense/cmd/mbgsense-predict/ui"
)

func main() {
	if err := commands.Execute(); err != nil {
		ui.Error(os.Stderr, "%v", err)
		os.Exit(1)
	}
}
