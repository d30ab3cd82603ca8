package main

import (
	"fmt"
	"os"
	"strings"

	"tela/internal/yamlmodel"

	"github.com/spf13/cobra"
)

var yamlgetCmd = &cobra.Command{
	Use:   "yamlget file path...",
	Short: "Emit YAMLPATH='...' VALUE='...' TYPE='scalar|map' for each path",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, paths := args[0], args[1:]
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}
		root, err := yamlmodel.ParseString(string(data), file)
		if err != nil {
			return fmt.Errorf("parse %s: %w", file, err)
		}

		sq := func(s string) string { return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'" }
		for _, path := range paths {
			node, ok := yamlmodel.GetNode(root, path)
			if !ok || node == nil {
				fmt.Printf("YAMLPATH=%s VALUE='' TYPE=''\n", sq(path))
				continue
			}
			switch node.Kind {
			case yamlmodel.Scalar:
				fmt.Printf("YAMLPATH=%s VALUE=%s TYPE='scalar'\n", sq(path), sq(node.Content))
			default:
				fmt.Printf("YAMLPATH=%s VALUE='' TYPE='map'\n", sq(path))
			}
		}
		return nil
	},
}
