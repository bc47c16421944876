package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/ygrebnov/lightspeed"
)

// IndexEnv is set in the environment of every child process to its submission index.
const IndexEnv = "LIGHTSPEED_INDEX"

var errNoCommand = errors.New("no command given")

// Result is the outcome of one successful command invocation.
type Result struct {
	Index     int           `json:"index" yaml:"index"`
	Output    string        `json:"output" yaml:"output"`
	Elapsed   time.Duration `json:"-" yaml:"-"`
	ElapsedMs float64       `json:"elapsed_ms" yaml:"elapsed_ms"`
}

// execCommand runs args as a program with kwargs added to its environment.
func execCommand(ctx context.Context, args lightspeed.Args, kwargs lightspeed.Kwargs) (Result, error) {
	if args.Len() == 0 {
		return Result{}, errNoCommand
	}
	argv := make([]string, args.Len())
	for i := range argv {
		s, err := lightspeed.Arg[string](args, i)
		if err != nil {
			return Result{}, err
		}
		argv[i] = s
	}

	idx, _ := lightspeed.InvocationIndex(ctx)

	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	c.Env = append(os.Environ(), IndexEnv+"="+strconv.Itoa(idx))
	for _, k := range kwargs.Keys() {
		v, _ := kwargs.Get(k)
		c.Env = append(c.Env, fmt.Sprintf("%s=%v", k, v))
	}

	start := time.Now()
	out, err := c.CombinedOutput()
	elapsed := time.Since(start)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{}, fmt.Errorf("%s exited with status %d: %s",
				argv[0], exitErr.ExitCode(), strings.TrimSpace(string(out)))
		}
		return Result{}, err
	}

	return Result{
		Index:     idx,
		Output:    string(out),
		Elapsed:   elapsed,
		ElapsedMs: float64(elapsed) / float64(time.Millisecond),
	}, nil
}

// commandArgs converts argv into descriptor arguments.
func commandArgs(argv []string) []any {
	out := make([]any, len(argv))
	for i, s := range argv {
		out[i] = s
	}
	return out
}

// parseEnv turns KEY=VALUE pairs into descriptor kwargs. An empty list yields nil.
func parseEnv(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	env := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --env value %q, want KEY=VALUE", p)
		}
		env[strings.TrimSpace(k)] = v
	}
	return env, nil
}
