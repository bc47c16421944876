// Command lightspeed runs external commands through the lightspeed dispatcher,
// once or many times in parallel, and exposes the text formatting helpers.
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	return runWith(&app{}, os.Stdout, os.Stderr, args)
}

// runWith executes the command tree and closes the log output whether or not the
// command failed.
func runWith(a *app, stdout, stderr io.Writer, args []string) error {
	root := newRootCommand(a)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	if cerr := a.teardown(); err == nil {
		err = cerr
	}
	return err
}
