package main

import (
	"fmt"
	"os"

	"tela/internal/runpipeline"

	"github.com/spf13/cobra"
)

var countCmd = &cobra.Command{
	Use:   "count exec...",
	Short: "Print the sum of declared plans across exec files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		total := 0
		for _, execPath := range args {
			c, err := runpipeline.LoadConfig(execPath, os.Stderr)
			if err != nil {
				return err
			}
			plan := c.Plan
			if plan < 1 {
				plan = 1
			}
			total += plan
		}
		fmt.Println(total)
		return nil
	},
}
