package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
)

// Prompter asks for one line of input. It returns io.EOF when input ends
// or the user aborts.
type Prompter interface {
	Prompt(label string) (string, error)
}

// LinePrompter reads from the terminal with line editing and history.
type LinePrompter struct {
	state *liner.State
}

func NewLinePrompter() *LinePrompter {
	l := liner.NewLiner()
	l.SetCtrlCAborts(true)
	return &LinePrompter{state: l}
}

func (p *LinePrompter) Prompt(label string) (string, error) {
	line, err := p.state.Prompt(label)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		p.state.AppendHistory(line)
	}
	return line, nil
}

// Close restores the terminal.
func (p *LinePrompter) Close() error {
	return p.state.Close()
}

// ReaderPrompter reads lines from any reader, echoing the label to out.
type ReaderPrompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewReaderPrompter(in io.Reader, out io.Writer) *ReaderPrompter {
	return &ReaderPrompter{scanner: bufio.NewScanner(in), out: out}
}

func (p *ReaderPrompter) Prompt(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.scanner.Text(), nil
}

// Close is a no-op; the reader belongs to the caller.
func (p *ReaderPrompter) Close() error { return nil }
