package harnesscfg

import (
	"os"
)

// TempDirRoot picks the root a fresh per-test temp dir is created under:
// /var/tmp when the test declared large_temp, else /tmp — unless
// _TELA_TMPDIR/TMPDIR overrides either.
func (c Config) TempDirRoot(largeTemp bool) string {
	if c.TmpDirBase != "" {
		return c.TmpDirBase
	}
	if largeTemp {
		return "/var/tmp"
	}
	return "/tmp"
}

// NewTempDir creates a fresh, uniquely named temp directory for one test
// run under the resolved root.
func (c Config) NewTempDir(largeTemp bool) (string, error) {
	return os.MkdirTemp(c.TempDirRoot(largeTemp), "tela-")
}
