package runpipeline

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"tela/internal/yamlmodel"
)

// Config is the plan/large_temp declaration from a test's adjacent
// "<exec>.yaml" file.
type Config struct {
	// Plan is the declared sub-test count; -1 means the file (or a
	// test/plan key within it) is absent.
	Plan int
	// PlanMapping is non-nil when test/plan was given as a name->description
	// mapping rather than a bare integer; Plan is then len(PlanMapping).
	// Each entry's Handled flag is set as its sub-test result is consumed,
	// so unconsumed entries can be reported after the run.
	PlanMapping *yamlmodel.Node
	LargeTemp   bool
}

// LoadConfig reads execPath+".yaml", if present, warning on any key under
// test/ other than plan and large_temp.
func LoadConfig(execPath string, warnings io.Writer) (*Config, error) {
	cfg := &Config{Plan: -1}

	data, err := os.ReadFile(execPath + ".yaml")
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("runpipeline: read config %s.yaml: %w", execPath, err)
	}

	root, err := yamlmodel.ParseString(string(data), execPath+".yaml")
	if err != nil {
		fmt.Fprintf(warnings, "WARNING: %s.yaml: %v\n", execPath, err)
		return cfg, nil
	}

	test, ok := yamlmodel.GetNode(root, "test/")
	if !ok || test == nil {
		return cfg, nil
	}

	for entry := test; entry != nil; entry = entry.Next {
		if entry.Kind != yamlmodel.Mapping || entry.Key == nil {
			continue
		}
		switch entry.Key.Content {
		case "plan":
			switch {
			case entry.Value == nil:
			case entry.Value.Kind == yamlmodel.Scalar:
				n, err := strconv.Atoi(entry.Value.Content)
				if err != nil {
					fmt.Fprintf(warnings, "WARNING: %s.yaml: test/plan %q is not an integer\n", execPath, entry.Value.Content)
					continue
				}
				cfg.Plan = n
			case entry.Value.Kind == yamlmodel.Mapping:
				cfg.PlanMapping = entry.Value
				cfg.Plan = yamlmodel.Len(entry.Value)
			}
		case "large_temp":
			cfg.LargeTemp = entry.Value != nil && entry.Value.Kind == yamlmodel.Scalar &&
				entry.Value.Content != "" && entry.Value.Content != "0"
		default:
			fmt.Fprintf(warnings, "WARNING: %s.yaml: unexpected key %q under test/\n", execPath, entry.Key.Content)
		}
	}

	return cfg, nil
}
