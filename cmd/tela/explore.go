package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"tela/internal/yamlmodel"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

var exploreCmd = &cobra.Command{
	Use:   "explore file",
	Short: "Interactively walk a YAML document by path",
	Long: "Starts a REPL reading YAML path expressions (the same grammar\n" +
		"yamlget accepts) and printing the node found at each one. Enter a\n" +
		"bare path to descend, \"..\" is not special (paths are absolute from\n" +
		"the document root); Ctrl-D exits.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		root, err := yamlmodel.ParseString(string(data), args[0])
		if err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		rl, err := readline.NewEx(&readline.Config{
			Prompt:      args[0] + "> ",
			HistoryFile: "",
		})
		if err != nil {
			return err
		}
		defer rl.Close()

		for {
			line, err := rl.Readline()
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			if line == "" {
				continue
			}
			printExploreNode(root, line)
		}
	},
}

func printExploreNode(root *yamlmodel.Node, path string) {
	node, ok := yamlmodel.GetNode(root, path)
	if !ok || node == nil {
		fmt.Printf("(no node at %q)\n", path)
		return
	}
	switch node.Kind {
	case yamlmodel.Scalar:
		fmt.Printf("scalar: %s\n", node.Content)
	default:
		first := node
		if path != "" && !strings.HasSuffix(path, "/") && node.Kind == yamlmodel.Mapping {
			// A path without a trailing "/" names the entry itself; its
			// children are the nodes of its value.
			first = node.Value
		}
		n := 0
		for c := first; c != nil; c = c.Next {
			n++
		}
		fmt.Printf("%s with %d child(ren)\n", node.Kind, n)
	}
}
