// Command tela is the single argv-0 dispatch point for every core
// subcommand (§6.4).
package main

import (
	"os"

	"tela/pkg/exitcode"
)

func main() {
	os.Exit(exitcode.Run(func() error {
		return rootCmd.Execute()
	}))
}
