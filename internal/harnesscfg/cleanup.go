package harnesscfg

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// CleanupGuard tracks temp paths created during a run and removes them on
// Release, or automatically when a fatal signal arrives — the
// reimplementation of misc.c's process-wide cleanup-on-signal list, scoped
// to one guard value instead of a global.
type CleanupGuard struct {
	mu      sync.Mutex
	paths   []string
	sigCh   chan os.Signal
	stop    chan struct{}
	stopped sync.Once
}

// NewCleanupGuard installs a signal handler for the fatal signals the
// concurrency model names: the guard runs its cleanup, then re-raises the
// signal with the default handler so the process still dies from it.
func NewCleanupGuard() *CleanupGuard {
	g := &CleanupGuard{
		sigCh: make(chan os.Signal, 1),
		stop:  make(chan struct{}),
	}
	signal.Notify(g.sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go g.watch()
	return g
}

func (g *CleanupGuard) watch() {
	select {
	case sig := <-g.sigCh:
		g.removeAll()
		signal.Reset(sig.(syscall.Signal))
		proc, err := os.FindProcess(os.Getpid())
		if err == nil {
			proc.Signal(sig)
		}
	case <-g.stop:
	}
}

// Add registers a path for cleanup.
func (g *CleanupGuard) Add(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.paths = append(g.paths, path)
}

// Release removes every registered path and stops watching for signals.
// Safe to call once at the end of a normal run.
func (g *CleanupGuard) Release() {
	g.stopped.Do(func() { close(g.stop) })
	signal.Stop(g.sigCh)
	g.removeAll()
}

func (g *CleanupGuard) removeAll() {
	g.mu.Lock()
	paths := g.paths
	g.paths = nil
	g.mu.Unlock()

	for _, p := range paths {
		if err := os.RemoveAll(p); err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: cleanup of %s failed: %v\n", p, err)
		}
	}
}
