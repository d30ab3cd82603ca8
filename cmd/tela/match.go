package main

import (
	"fmt"
	"os"

	"tela/internal/resolver"
	"tela/internal/yamlmodel"
	"tela/pkg/exitcode"

	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match req-file [res-file] [getstate] [fmt]",
	Short: "Resolve requirements against resources; emit env or YAML",
	Long: "fmt selects the output format: \"env\" (default) prints one\n" +
		"TELA_*=value line per binding; \"yaml\" prints the reduced,\n" +
		"matched-only resource tree instead. getstate, if given as \"yes\",\n" +
		"invokes the external/local resource-state script before matching.",
	Args: cobra.RangeArgs(1, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		reqPath := args[0]
		resPath := cfg.ResourceFile
		doState := false
		outFmt := "env"
		if len(args) > 1 {
			resPath = args[1]
		}
		if len(args) > 2 {
			doState = args[2] == "yes"
		}
		if len(args) > 3 {
			outFmt = args[3]
		}

		req, err := readYAMLFile(reqPath)
		if err != nil {
			return err
		}
		res, err := readYAMLFile(resPath)
		if err != nil {
			return err
		}

		outcome, reason, err := resolver.Resolve(req, res, resolver.Options{
			Registry: registry,
			State:    stateRunner,
			DoState:  doState,
			ResFail:  cfg.ResFail,
			Warnings: warnWriter{},
		})
		if err != nil {
			return err
		}
		if outcome == nil {
			return exitcode.AsTestCase(fmt.Errorf("no match: %s", reason))
		}

		switch outFmt {
		case "yaml":
			return yamlmodel.Emit(os.Stdout, outcome.Resource, yamlmodel.EmitOptions{Indent: 2})
		default:
			for _, e := range outcome.Env {
				fmt.Println(e)
			}
			return nil
		}
	},
}

func readYAMLFile(path string) (*yamlmodel.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return yamlmodel.ParseString(string(data), path)
}
