package recorder

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// RecordOptions configures a Record call.
type RecordOptions struct {
	Dir          string
	Env          []string
	Scope        Scope
	Handler      Handler
	ExtraStreams []StreamDescriptor // e.g. a control stream or named fds the child inherits
	LogWriter    io.Writer
	Stop         <-chan struct{}
}

// Record spawns argv[0] with argv[1:] as arguments, multiplexes its
// stdout/stderr (and any ExtraStreams) through LogStreams, and waits for
// it to finish. The returned Result's ExitCode/Signal/Rusage fields are
// populated from the child's process state; Output holds the captured
// byte stream for the scopes requested.
func Record(argv []string, opts RecordOptions) (*Result, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("recorder: empty argv")
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = opts.Dir
	cmd.Env = opts.Env

	var out *os.File
	var outSize int64
	captureOutput := opts.Scope.has(Stdout) || opts.Scope.has(Stderr)
	if captureOutput {
		f, err := os.CreateTemp("", "tela-record-*")
		if err != nil {
			return nil, fmt.Errorf("recorder: create output temp file: %w", err)
		}
		out = f
	}

	var streams []StreamDescriptor
	if opts.Scope.has(Stdout) {
		p, err := cmd.StdoutPipe()
		if err != nil {
			return nil, fmt.Errorf("recorder: stdout pipe: %w", err)
		}
		streams = append(streams, StreamDescriptor{Name: "stdout", Reader: p})
	} else {
		cmd.Stdout = nil
	}
	if opts.Scope.has(Stderr) {
		p, err := cmd.StderrPipe()
		if err != nil {
			return nil, fmt.Errorf("recorder: stderr pipe: %w", err)
		}
		streams = append(streams, StreamDescriptor{Name: "stderr", Reader: p})
	}
	streams = append(streams, opts.ExtraStreams...)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		if out != nil {
			out.Close()
			os.Remove(out.Name())
		}
		return nil, fmt.Errorf("recorder: start %v: %w", argv, err)
	}

	handler := opts.Handler
	if out != nil {
		inner := handler
		handler = func(ev Event) {
			if !ev.Closed {
				n, _ := io.WriteString(out, ev.Line)
				outSize += int64(n)
				if !ev.NoNewline {
					out.WriteString("\n")
					outSize++
				}
			}
			if inner != nil {
				inner(ev)
			}
		}
	}

	logErr := LogStreams(opts.LogWriter, streams, handler, start, opts.Stop)
	waitErr := cmd.Wait()
	stop := time.Now()
	if logErr != nil {
		return nil, logErr
	}

	res := &Result{Start: start, Stop: stop}
	if out != nil {
		if _, err := out.Seek(0, io.SeekStart); err != nil {
			out.Close()
			return nil, fmt.Errorf("recorder: rewind output: %w", err)
		}
		res.Output = out
		res.OutputSize = outSize
	}

	state := cmd.ProcessState
	if state != nil {
		if opts.Scope.has(Rusage) {
			res.Rusage = convertRusage(state.SysUsage())
		}
		ws, ok := state.Sys().(syscall.WaitStatus)
		switch {
		case ok && ws.Signaled():
			res.HasSignal = true
			res.Signal = int(ws.Signal())
		default:
			res.HasExitCode = true
			res.ExitCode = state.ExitCode()
		}
	}

	if waitErr != nil {
		if _, isExit := waitErr.(*exec.ExitError); !isExit {
			return res, fmt.Errorf("recorder: wait %v: %w", argv, waitErr)
		}
	}
	return res, nil
}

func convertRusage(sys any) *CPUUsage {
	ru, ok := sys.(*syscall.Rusage)
	if !ok || ru == nil {
		return nil
	}
	return &CPUUsage{
		UtimeMs:  float64(ru.Utime.Sec)*1000 + float64(ru.Utime.Usec)/1000,
		StimeMs:  float64(ru.Stime.Sec)*1000 + float64(ru.Stime.Usec)/1000,
		MaxRSSKb: int64(ru.Maxrss),
		MinFlt:   int64(ru.Minflt),
		MajFlt:   int64(ru.Majflt),
		InBlock:  int64(ru.Inblock),
		OutBlock: int64(ru.Oublock),
		NVCSW:    int64(ru.Nvcsw),
		NIVCSW:   int64(ru.Nivcsw),
	}
}
