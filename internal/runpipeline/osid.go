package runpipeline

import (
	"fmt"
	"io"

	"tela/internal/recorder"
	"tela/internal/yamlmodel"
)

type osIdentity struct {
	id      string
	version string
}

// osIDVersion returns TELA_OS_ID/TELA_OS_VERSION, querying OSIDScript once
// per Pipeline lifetime and caching the answer for every RunOne call after
// the first. An empty OSIDScript leaves both values empty.
func (p *Pipeline) osIDVersion() (string, string) {
	if p.osID != nil {
		return p.osID.id, p.osID.version
	}
	if p.OSIDScript == "" {
		return "", ""
	}

	result, err := recorder.Record([]string{p.OSIDScript}, recorder.RecordOptions{Scope: recorder.Stdout})
	if err != nil {
		fmt.Fprintf(p.Warnings, "WARNING: os-id script %s failed: %v\n", p.OSIDScript, err)
		p.osID = &osIdentity{}
		return "", ""
	}

	var text []byte
	if result.Output != nil {
		text, _ = io.ReadAll(result.Output)
	}
	doc, err := yamlmodel.ParseString(string(text), p.OSIDScript)
	if err != nil {
		fmt.Fprintf(p.Warnings, "WARNING: os-id script %s output: %v\n", p.OSIDScript, err)
		p.osID = &osIdentity{}
		return "", ""
	}

	id := &osIdentity{}
	if n, ok := yamlmodel.GetScalar(doc, "id/"); ok && n != nil {
		id.id = n.Content
	}
	if n, ok := yamlmodel.GetScalar(doc, "version/"); ok && n != nil {
		id.version = n.Content
	}
	p.osID = id
	return id.id, id.version
}
