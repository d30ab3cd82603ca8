package main

import (
	"fmt"
	"os"

	"tela/internal/harnesscfg"
	"tela/internal/runpipeline"
	"tela/internal/yamlmodel"
	"tela/pkg/exitcode"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run exec [scope] [matchenv-file] [match-error]",
	Short: "Run one test",
	Long: "Run one test executable against its requirements and the available\n" +
		"resources, emitting a canonical TAP13 stream on stdout.\n\n" +
		"scope is the requirements YAML file (defaults to <exec>.require.yaml\n" +
		"if present); matchenv-file is the resources YAML to resolve against\n" +
		"(defaults to the configured resource file); match-error, if given,\n" +
		"also turns a resolve failure into a hard error, returned after the\n" +
		"SKIP results have been written.",
	Args: cobra.RangeArgs(0, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		execPath, err := pickExec(args)
		if err != nil {
			return exitcode.AsSyntax(err)
		}

		reqPath := execPath + ".require.yaml"
		resPath := cfg.ResourceFile
		matchError := false
		if len(args) > 1 {
			reqPath = args[1]
		}
		if len(args) > 2 {
			resPath = args[2]
		}
		if len(args) > 3 {
			matchError = true
		}

		req, err := readYAMLIfExists(reqPath)
		if err != nil {
			return err
		}
		res, err := readYAMLIfExists(resPath)
		if err != nil {
			return err
		}

		p := &runpipeline.Pipeline{
			Registry:   registry,
			State:      stateRunner,
			DoState:    true,
			ResFail:    cfg.ResFail,
			Cfg:        cfg,
			Cleanup:    cleanupGuard(),
			OSIDScript: flagLocalScr,
			Warnings:   warnWriter{},
		}

		runErr := p.RunOne(execPath, runpipeline.RunOptions{Requirements: req, Resources: res}, os.Stdout)
		if runErr == runpipeline.ErrBailOut {
			return exitcode.Tag(exitcode.KindTestCase, runErr)
		}
		if runErr != nil {
			return runErr
		}
		if matchError && req != nil && res != nil {
			if _, reason, _ := resolveForCheck(req, res); reason != "" {
				return exitcode.AsTestCase(fmt.Errorf("resolve failed: %s", reason))
			}
		}
		return nil
	},
}

var cleanupOnce *harnesscfg.CleanupGuard

func cleanupGuard() *harnesscfg.CleanupGuard {
	if cleanupOnce == nil {
		cleanupOnce = harnesscfg.NewCleanupGuard()
	}
	return cleanupOnce
}

func readYAMLIfExists(path string) (*yamlmodel.Node, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return yamlmodel.ParseString(string(data), path)
}

// pickExec fuzzy-picks a test executable from the current directory tree
// when run is invoked with no positional argument.
func pickExec(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	candidates, err := discoverExecutables(".")
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no test executables found under the current directory")
	}
	idx, err := fuzzyfinder.Find(candidates, func(i int) string { return candidates[i] },
		fuzzyfinder.WithPromptString("Select a test to run: "))
	if err != nil {
		return "", err
	}
	return candidates[idx], nil
}

func discoverExecutables(root string) ([]string, error) {
	var found []string
	err := walkExecutables(root, &found)
	return found, err
}
