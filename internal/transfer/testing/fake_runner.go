// Package testing provides a fake Runner for exercising transfer flows
// without spawning real external tools.
package testing

import (
	"github.com/mutasim/xfer/internal/transfer"
)

// FakeRunner records invocations and returns canned results.
type FakeRunner struct {
	// ExitCode is returned for every run. Zero means success.
	ExitCode int
	// Diagnostic is the canned captured stderr text.
	Diagnostic string
	// Err, when set, is returned as a spawn failure.
	Err error

	// Invocations records every invocation passed to Run, in order.
	Invocations []transfer.Invocation
}

// NewFakeRunner creates a fake runner that reports success.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{}
}

// Run records the invocation and returns the canned result.
func (f *FakeRunner) Run(inv transfer.Invocation) (int, string, error) {
	f.Invocations = append(f.Invocations, inv)
	if f.Err != nil {
		return -1, "", f.Err
	}
	return f.ExitCode, f.Diagnostic, nil
}

// Last returns the most recent invocation, or a zero value when none ran.
func (f *FakeRunner) Last() transfer.Invocation {
	if len(f.Invocations) == 0 {
		return transfer.Invocation{}
	}
	return f.Invocations[len(f.Invocations)-1]
}
