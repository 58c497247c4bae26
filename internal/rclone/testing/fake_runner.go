// Package testing provides test doubles for the rclone package.
package testing

import (
	"context"
	"io"
	"strings"
	"sync"
)

// Call records a single invocation of the fake runner.
type Call struct {
	Bin  string
	Args []string
	// Mode is "run", "capture", or "interactive".
	Mode string
}

// Response scripts the result of one invocation.
type Response struct {
	Output   string
	ExitCode int
	Err      error
}

// FakeRunner simulates rclone invocations for testing. Responses are
// matched by subcommand (the first argument after any --config pair);
// unmatched invocations succeed with empty output. A response queue per
// subcommand lets tests script probe-reconnect-probe sequences.
type FakeRunner struct {
	mu        sync.Mutex
	Calls     []Call
	responses map[string][]Response
}

// NewFakeRunner creates a fake runner that succeeds by default.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{responses: make(map[string][]Response)}
}

// Script appends a response for the given subcommand ("lsd", "copy",
// "listremotes", "config", "version"). Responses are consumed in order;
// the last one repeats once the queue is drained.
func (f *FakeRunner) Script(subcommand string, resp Response) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[subcommand] = append(f.responses[subcommand], resp)
	return f
}

// CallsFor returns the recorded calls whose subcommand matches.
func (f *FakeRunner) CallsFor(subcommand string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Call
	for _, c := range f.Calls {
		if subcommandOf(c.Args) == subcommand {
			out = append(out, c)
		}
	}
	return out
}

func (f *FakeRunner) Run(ctx context.Context, bin string, args []string, stdout, stderr io.Writer) (int, error) {
	resp := f.record(bin, args, "run")
	if resp.Output != "" && stdout != nil {
		_, _ = io.WriteString(stdout, resp.Output)
	}
	return resp.ExitCode, resp.Err
}

func (f *FakeRunner) RunCapture(ctx context.Context, bin string, args []string) (string, int, error) {
	resp := f.record(bin, args, "capture")
	return resp.Output, resp.ExitCode, resp.Err
}

func (f *FakeRunner) RunInteractive(ctx context.Context, bin string, args []string) (int, error) {
	resp := f.record(bin, args, "interactive")
	return resp.ExitCode, resp.Err
}

func (f *FakeRunner) record(bin string, args []string, mode string) Response {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, Call{Bin: bin, Args: append([]string(nil), args...), Mode: mode})

	sub := subcommandOf(args)
	queue := f.responses[sub]
	if len(queue) == 0 {
		return Response{}
	}

	resp := queue[0]
	if len(queue) > 1 {
		f.responses[sub] = queue[1:]
	}
	return resp
}

// subcommandOf skips the --config flag pair and returns the first real
// argument.
func subcommandOf(args []string) string {
	for i := 0; i < len(args); i++ {
		if args[i] == "--config" {
			i++
			continue
		}
		if strings.HasPrefix(args[i], "-") {
			continue
		}
		return args[i]
	}
	return ""
}
