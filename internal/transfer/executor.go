package transfer

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mutasim/xfer/internal/errors"
	"github.com/mutasim/xfer/internal/logger"
)

// Outcome is the structured result of one executed invocation.
type Outcome struct {
	Strategy       Strategy
	ExitCode       int
	Succeeded      bool
	Classification string
	Diagnostic     string
}

// Runner is the process-spawning capability the engine calls through.
// Run blocks until the child exits and returns its exit code plus any
// captured diagnostic text. A non-zero exit is not an error here; err is
// reserved for failures to spawn at all.
type Runner interface {
	Run(inv Invocation) (exitCode int, diagnostic string, err error)
}

// ExecRunner runs invocations as real child processes, streaming output to
// the user live. Stderr is additionally captured (bounded) for diagnostics.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	log logger.Logger
}

// NewExecRunner creates a runner wired to the process's own streams.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Stdin:  os.Stdin,
		log:    logger.NewEnvLogger("[exec]"),
	}
}

// maxDiagnostic bounds the captured stderr kept for failure reports.
const maxDiagnostic = 8 * 1024

// Run spawns the invocation and waits for it. SIGINT/SIGTERM received while
// the child runs are forwarded to it so an interrupted transfer doesn't
// leave an orphaned process behind.
func (r *ExecRunner) Run(inv Invocation) (int, string, error) {
	path, err := exec.LookPath(inv.Tool)
	if err != nil {
		return -1, "", errors.WrapWithCode(err, errors.ErrSpawn,
			fmt.Sprintf("%s isn't installed locally", inv.Tool),
			fmt.Sprintf("Grab it with: brew install %s (macOS) or apt install %s (Linux)", inv.Tool, inv.Tool))
	}

	if r.log != nil {
		r.log.Debug("spawning %s %s", path, strings.Join(inv.Args, " "))
	}

	var diag bytes.Buffer
	cmd := exec.Command(path, inv.Args...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = io.MultiWriter(r.Stderr, newTailWriter(&diag, maxDiagnostic))

	if err := cmd.Start(); err != nil {
		return -1, "", errors.WrapWithCode(err, errors.ErrSpawn,
			fmt.Sprintf("Couldn't start %s", inv.Tool),
			"Check that the tool is installed and executable.")
	}

	// Forward interrupts to the child instead of dying around it
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigc:
				_ = cmd.Process.Signal(sig)
			case <-done:
				return
			}
		}
	}()

	waitErr := cmd.Wait()
	close(done)
	signal.Stop(sigc)

	if waitErr != nil {
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			return exitErr.ExitCode(), strings.TrimSpace(diag.String()), nil
		}
		return -1, strings.TrimSpace(diag.String()), errors.WrapWithCode(waitErr, errors.ErrSpawn,
			fmt.Sprintf("%s did not run to completion", inv.Tool),
			"Check the output above.")
	}

	return 0, strings.TrimSpace(diag.String()), nil
}

// Execute runs the invocation through the given runner and maps its exit
// status to an Outcome. Non-zero exits return both the outcome and a
// mechanism error carrying the best-effort classification.
func Execute(runner Runner, inv Invocation) (Outcome, error) {
	exitCode, diagnostic, err := runner.Run(inv)
	if err != nil {
		return Outcome{Strategy: inv.Strategy, ExitCode: exitCode}, err
	}

	out := Outcome{
		Strategy:   inv.Strategy,
		ExitCode:   exitCode,
		Succeeded:  exitCode == 0,
		Diagnostic: diagnostic,
	}
	if exitCode != 0 {
		out.Classification = Classify(inv.Tool, exitCode)
		return out, errors.NewMechanism(inv.Tool, exitCode, out.Classification)
	}
	return out, nil
}

// tailWriter keeps at most limit bytes of the most recent writes.
type tailWriter struct {
	buf   *bytes.Buffer
	limit int
}

func newTailWriter(buf *bytes.Buffer, limit int) *tailWriter {
	return &tailWriter{buf: buf, limit: limit}
}

func (w *tailWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	if w.buf.Len() > w.limit {
		trimmed := w.buf.Bytes()[w.buf.Len()-w.limit:]
		rest := make([]byte, len(trimmed))
		copy(rest, trimmed)
		w.buf.Reset()
		w.buf.Write(rest)
	}
	return len(p), nil
}
