package main

import (
	"fmt"

	"tela/internal/resolver"
	"tela/pkg/exitcode"

	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval type res req",
	Short: "Evaluate one typed comparison (0=match)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		typeName, res, req := args[0], args[1], args[2]

		var ok bool
		var err error
		switch typeName {
		case "number":
			ok, err = resolver.CompareNumbers(req, res)
		case "version":
			ok, err = resolver.CompareVersions(req, res)
		case "scalar":
			ok, err = resolver.CompareScalars(req, res)
		default:
			return exitcode.AsSyntax(fmt.Errorf("unknown comparison type %q (want number, version, or scalar)", typeName))
		}
		if err != nil {
			return exitcode.AsTestCase(err)
		}
		if !ok {
			return exitcode.AsTestCase(fmt.Errorf("%s %q does not satisfy %q", typeName, res, req))
		}
		return nil
	},
}
