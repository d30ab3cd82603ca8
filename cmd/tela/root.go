package main

import (
	"fmt"
	"os"

	"tela/internal/harnesscfg"
	"tela/internal/hostprobe"
	"tela/internal/resolver"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const appName = "tela"

var (
	cfg          harnesscfg.Config
	registry     *resolver.Registry
	stateRunner  *resolver.StateRunner
	flagRegDir   string
	flagLocalScr string
	flagRemoteFm string
)

var rootCmd = &cobra.Command{
	Use:   appName + " <command> [args...]",
	Short: "Resource-matching test harness core",
	Long: appName + " binds test requirements to available resources, runs the\n" +
		"test, and canonicalises its result into a TAP13 stream.",
	SilenceUsage:      true,
	PersistentPreRunE: loadEnvironment,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRegDir, "registry-dir", "", "directory of .types attribute-type files")
	rootCmd.PersistentFlags().StringVar(&flagLocalScr, "state-script", "", "external local resource-state script (overrides the built-in probe)")
	rootCmd.PersistentFlags().StringVar(&flagRemoteFm, "remote-wrapper", "", "format string with one %s for remote resource-state invocation")

	rootCmd.AddCommand(
		countCmd,
		runCmd,
		monitorCmd,
		formatCmd,
		evalCmd,
		yamlgetCmd,
		fixnameCmd,
		matchCmd,
		yamlscalarCmd,
		configCmd,
		exploreCmd,
	)
}

func loadEnvironment(cmd *cobra.Command, args []string) error {
	cfg = harnesscfg.Load()

	reg := &resolver.Registry{}
	if flagRegDir != "" {
		loaded, err := resolver.LoadRegistryDir(flagRegDir)
		if err != nil {
			return fmt.Errorf("load registry dir %s: %w", flagRegDir, err)
		}
		reg = loaded
	}
	registry = reg

	stateRunner = &resolver.StateRunner{
		LocalScript:   flagLocalScr,
		RemoteWrapper: flagRemoteFm,
		CacheDir:      cfg.CacheDir,
	}
	if flagLocalScr == "" {
		stateRunner.Probe = hostprobe.Probe
	}
	return nil
}

func colorEnabled() bool {
	return cfg.Color && isatty.IsTerminal(os.Stderr.Fd())
}

// warnWriter colours lines already formatted as "WARNING: ..." by
// internal/resolver and internal/runpipeline when stderr is a terminal and
// COLOR is set, per §7's "ANSI colour where enabled" clause. Every
// subcommand that drives the resolver or the run pipeline passes this as
// their Warnings writer instead of os.Stderr directly.
type warnWriter struct{}

func (warnWriter) Write(p []byte) (int, error) {
	if !colorEnabled() {
		return os.Stderr.Write(p)
	}
	if _, err := os.Stderr.WriteString("\x1b[33m"); err != nil {
		return 0, err
	}
	n, err := os.Stderr.Write(p)
	if err != nil {
		return n, err
	}
	_, err = os.Stderr.WriteString("\x1b[0m")
	return n, err
}
