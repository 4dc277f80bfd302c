package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"dupesweep/internal/msg"
)

// consolePrompter asks per-group confirmation questions on stdin. When stdin
// is not a terminal every question is declined, so piped or scheduled runs
// with confirm enabled never delete anything.
type consolePrompter struct {
	in          *bufio.Reader
	out         io.Writer
	catalog     *msg.Catalog
	interactive bool
}

func newConsolePrompter(catalog *msg.Catalog, out io.Writer) *consolePrompter {
	fd := os.Stdin.Fd()
	return &consolePrompter{
		in:          bufio.NewReader(os.Stdin),
		out:         out,
		catalog:     catalog,
		interactive: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}
}

func (p *consolePrompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if !p.interactive {
		return false, nil
	}
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}
	return p.catalog.IsAffirmative(line), nil
}
