package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/scholarsite/citekit/internal/config"
)

// stdinPrompter asks for a local bibliography file on the terminal.
type stdinPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newStdinPrompter(in io.Reader, out io.Writer) *stdinPrompter {
	return &stdinPrompter{in: bufio.NewReader(in), out: out}
}

// PromptFile reads one path. An empty line or end of input declines.
// The read itself cannot be interrupted by ctx.
func (p *stdinPrompter) PromptFile(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	fmt.Fprint(p.out, "Bibliography not available. Path to a local .bib file (empty to cancel): ")
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, err
	}

	path := strings.Trim(strings.TrimSpace(line), `"'`)
	if path == "" {
		return "", false, nil
	}
	return config.ExpandPath(path), true, nil
}

func (p *stdinPrompter) Alert(msg string) {
	fmt.Fprintf(p.out, "Could not use that file: %s\n", msg)
}
