package main

import (
	"io/fs"
	"path/filepath"
	"strings"

	"tela/internal/resolver"
	"tela/internal/yamlmodel"
)

// walkExecutables collects every regular, executable file under root whose
// name has no extension (test executables are bare names; their sibling
// ".yaml"/".require.yaml" declaration files are not candidates).
func walkExecutables(root string, out *[]string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.Contains(d.Name(), ".") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Mode()&0o111 != 0 {
			*out = append(*out, path)
		}
		return nil
	})
}

func resolveForCheck(req, res *yamlmodel.Node) (*resolver.Outcome, string, error) {
	return resolver.Resolve(req, res, resolver.Options{
		Registry: registry,
		State:    stateRunner,
		DoState:  true,
		ResFail:  cfg.ResFail,
		Warnings: warnWriter{},
	})
}
