package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"tela/internal/recorder"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor name:path...",
	Short: "Tail-monitor external FIFOs into a canonical, timestamped log",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var streams []recorder.StreamDescriptor
		for _, a := range args {
			name, path, ok := strings.Cut(a, ":")
			if !ok {
				return fmt.Errorf("argument %q is not in name:path form", a)
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			streams = append(streams, recorder.StreamDescriptor{Name: name, Reader: f, Closer: f})
		}

		lines := make(chan monitorLine, 256)
		stop := make(chan struct{})
		go func() {
			recorder.LogStreams(os.Stderr, streams, func(ev recorder.Event) {
				if ev.Closed {
					return
				}
				lines <- monitorLine{stream: ev.Stream, text: ev.Line, at: time.Now()}
			}, time.Now(), stop)
			close(lines)
		}()

		p := tea.NewProgram(newMonitorModel(lines))
		_, err := p.Run()
		close(stop)
		return err
	},
}
