package main

import (
	"fmt"

	"tela/internal/tap"

	"github.com/spf13/cobra"
)

var fixnameCmd = &cobra.Command{
	Use:   "fixname name",
	Short: "Emit the character-normalised name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(tap.SanitizeName(args[0]))
		return nil
	},
}
