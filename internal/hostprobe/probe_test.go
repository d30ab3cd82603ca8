package hostprobe

import (
	"testing"

	"tela/internal/yamlmodel"
)

func TestProbeReportsOSAndCPU(t *testing.T) {
	root, err := Probe(nil)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if yamlmodel.FindMapEntry(root, "os") == nil {
		t.Errorf("expected an 'os' entry in %v", root)
	}
	if yamlmodel.FindMapEntry(root, "cpu") == nil {
		t.Errorf("expected a 'cpu' entry in %v", root)
	}
	if yamlmodel.FindMapEntry(root, "mem") == nil {
		t.Errorf("expected a 'mem' entry in %v", root)
	}
}
