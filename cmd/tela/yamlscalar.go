package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"tela/internal/yamlmodel"

	"github.com/spf13/cobra"
)

var yamlscalarCmd = &cobra.Command{
	Use:   "yamlscalar file-or-- [indent] [escape]",
	Short: "Emit file as an indented YAML block scalar",
	Args:  cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openTAPInput(args[0])
		if err != nil {
			return err
		}
		defer r.Close()

		indent := 2
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("indent must be an integer: %w", err)
			}
			indent = n
		}
		escape := len(args) > 2

		pad := strings.Repeat(" ", indent)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			fmt.Print(pad)
			fmt.Println(yamlmodel.SanitizeScalar(sc.Text(), escape))
		}
		if err := sc.Err(); err != nil && err != io.EOF {
			return err
		}
		return nil
	},
}
