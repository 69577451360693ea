package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/tasdonena/admin-console/pkg/inflight"
)

var errNeedsConfirmation = errors.New("confirmation required: rerun with --yes")

// promptConfirmer asks on the terminal. --yes accepts every prompt, and a
// preset input answers the remarks, reason or confirmation word question.
type promptConfirmer struct {
	in        *bufio.Reader
	out       io.Writer
	terminal  bool
	assumeYes bool

	preset    string
	hasPreset bool
}

func newPromptConfirmer(in io.Reader, out io.Writer) *promptConfirmer {
	terminal := true
	if f, ok := in.(*os.File); ok {
		terminal = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &promptConfirmer{in: bufio.NewReader(in), out: out, terminal: terminal}
}

// Preset answers the next prompt's input question. set=false clears it.
func (p *promptConfirmer) Preset(input string, set bool) {
	p.preset, p.hasPreset = input, set
}

func (p *promptConfirmer) Confirm(ctx context.Context, prompt inflight.Prompt) (inflight.Confirmation, error) {
	fmt.Fprintln(p.out, prompt.Title)
	if prompt.Text != "" {
		fmt.Fprintln(p.out, prompt.Text)
	}

	input := p.preset
	needsInput := prompt.InputLabel != "" && !p.hasPreset
	if prompt.RequireWord != "" {
		if needsInput {
			if !p.terminal {
				return inflight.Confirmation{}, errNeedsConfirmation
			}
			var err error
			if input, err = p.ask(prompt.InputLabel + ": "); err != nil {
				return inflight.Confirmation{}, err
			}
		}
		return inflight.Confirmation{Confirmed: true, Input: input}, nil
	}

	if p.assumeYes {
		return inflight.Confirmation{Confirmed: true, Input: input}, nil
	}
	if !p.terminal {
		return inflight.Confirmation{}, errNeedsConfirmation
	}
	if needsInput {
		var err error
		if input, err = p.ask(prompt.InputLabel + ": "); err != nil {
			return inflight.Confirmation{}, err
		}
	}
	answer, err := p.ask("Proceed? [y/N]: ")
	if err != nil {
		return inflight.Confirmation{}, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return inflight.Confirmation{Confirmed: true, Input: input}, nil
	}
	return inflight.Confirmation{}, nil
}

func (p *promptConfirmer) ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
