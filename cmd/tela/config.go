package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the harness configuration",
}

var configOutFile string

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively collect harness settings and write a sourceable env file",
	RunE: func(cmd *cobra.Command, args []string) error {
		base, testBase, cacheDir, resourceFile := cfg.Base, cfg.TestBase, cfg.CacheDir, cfg.ResourceFile

		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("TELA_BASE (framework root)").Value(&base),
			huh.NewInput().Title("TELA_TESTBASE (test tree root)").Value(&testBase),
			huh.NewInput().Title("TELA_CACHE (resolver state cache directory)").Value(&cacheDir),
			huh.NewInput().Title("TELA_RC (resource file)").Value(&resourceFile),
		))
		if err := form.Run(); err != nil {
			return err
		}

		if err := os.MkdirAll(filepath.Dir(configOutFile), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(configOutFile), err)
		}
		f, err := os.Create(configOutFile)
		if err != nil {
			return fmt.Errorf("write %s: %w", configOutFile, err)
		}
		defer f.Close()

		fmt.Fprintf(f, "export TELA_BASE=%q\n", base)
		fmt.Fprintf(f, "export TELA_TESTBASE=%q\n", testBase)
		fmt.Fprintf(f, "export TELA_CACHE=%q\n", cacheDir)
		fmt.Fprintf(f, "export TELA_RC=%q\n", resourceFile)

		fmt.Printf("wrote %s — source it to apply\n", configOutFile)
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringVar(&configOutFile, "out", filepath.Join(os.Getenv("HOME"), ".telarc"), "path to write the env file to")
	configCmd.AddCommand(configInitCmd)
}
