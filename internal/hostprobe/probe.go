// Package hostprobe is the default "system" resource-state reporter used
// when no external libexec state script is configured for the local host.
// It reports the same kind of facts an external script would print on
// stdout, gathered in-process via gopsutil instead of shelling out.
package hostprobe

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"tela/internal/yamlmodel"
)

// Probe builds a resource subtree describing the local host: OS identity,
// CPU count, memory size, and one "dasd <mountpoint>" entry per mounted
// filesystem. sysin (the attributes the resolver actually needs) is
// accepted for signature compatibility with resolver.StateRunner.Probe but
// otherwise ignored — a local probe is cheap enough to always report
// everything it knows.
func Probe(sysin *yamlmodel.Node) (*yamlmodel.Node, error) {
	var root *yamlmodel.Node

	if entry, err := osEntry(); err == nil {
		root = yamlmodel.Append(root, entry)
	}
	if entry, err := cpuEntry(); err == nil {
		root = yamlmodel.Append(root, entry)
	}
	if entry, err := memEntry(); err == nil {
		root = yamlmodel.Append(root, entry)
	}
	if entries, err := diskEntries(); err == nil {
		root = yamlmodel.Append(root, entries)
	}

	return root, nil
}

func osEntry() (*yamlmodel.Node, error) {
	info, err := host.Info()
	if err != nil {
		return nil, err
	}
	children := yamlmodel.Append(
		yamlmodel.NewMappingEntry(yamlmodel.NewScalar("id"), yamlmodel.NewScalar(info.Platform)),
		yamlmodel.NewMappingEntry(yamlmodel.NewScalar("version"), yamlmodel.NewScalar(info.PlatformVersion)),
	)
	return yamlmodel.NewMappingEntry(yamlmodel.NewScalar("os"), children), nil
}

func cpuEntry() (*yamlmodel.Node, error) {
	n, err := cpu.Counts(true)
	if err != nil {
		return nil, err
	}
	children := yamlmodel.NewMappingEntry(yamlmodel.NewScalar("count"), yamlmodel.NewScalar(fmt.Sprintf("%d", n)))
	return yamlmodel.NewMappingEntry(yamlmodel.NewScalar("cpu"), children), nil
}

func memEntry() (*yamlmodel.Node, error) {
	v, err := mem.VirtualMemory()
	if err != nil {
		return nil, err
	}
	children := yamlmodel.NewMappingEntry(yamlmodel.NewScalar("total"), yamlmodel.NewScalar(fmt.Sprintf("%d", v.Total)))
	return yamlmodel.NewMappingEntry(yamlmodel.NewScalar("mem"), children), nil
}

func diskEntries() (*yamlmodel.Node, error) {
	parts, err := disk.Partitions(false)
	if err != nil {
		return nil, err
	}
	var head *yamlmodel.Node
	for _, p := range parts {
		usage, err := disk.Usage(p.Mountpoint)
		if err != nil {
			continue
		}
		children := yamlmodel.NewMappingEntry(yamlmodel.NewScalar("size"), yamlmodel.NewScalar(fmt.Sprintf("%d", usage.Total)))
		entry := yamlmodel.NewMappingEntry(yamlmodel.NewScalar("dasd "+p.Mountpoint), children)
		head = yamlmodel.Append(head, entry)
	}
	return head, nil
}
