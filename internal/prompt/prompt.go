// Package prompt collects interactive answers on the terminal.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
)

// ErrCancelled is returned when the user interrupts a prompt (Ctrl-C / EOF).
var ErrCancelled = errors.New("input cancelled")

// Prompter keeps one readline instance for all its questions so input read
// ahead for one answer is still there for the next. Close releases it.
type Prompter struct {
	stdin  io.ReadCloser
	stdout io.Writer
	rl     *readline.Instance
}

// New returns a prompter on the process terminal.
func New() *Prompter {
	return &Prompter{}
}

// NewWithIO reads answers from in and writes prompts to out. The streams are
// treated as plain pipes, never as a terminal.
func NewWithIO(in io.ReadCloser, out io.Writer) *Prompter {
	return &Prompter{stdin: in, stdout: out}
}

func (p *Prompter) instance() (*readline.Instance, error) {
	if p.rl != nil {
		return p.rl, nil
	}
	rlConfig := &readline.Config{
		Stdin:           p.stdin,
		Stdout:          p.stdout,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	}
	if p.stdin != nil {
		rlConfig.FuncIsTerminal = func() bool { return false }
		rlConfig.FuncMakeRaw = func() error { return nil }
		rlConfig.FuncExitRaw = func() error { return nil }
		rlConfig.FuncGetWidth = func() int { return 80 }
		rlConfig.FuncOnWidthChanged = func(func()) {}
	}
	rl, err := readline.NewEx(rlConfig)
	if err != nil {
		return nil, fmt.Errorf("error initializing readline: %w", err)
	}
	p.rl = rl
	return rl, nil
}

// Close releases the terminal. It is safe to call on an unused prompter.
func (p *Prompter) Close() error {
	if p.rl == nil {
		return nil
	}
	err := p.rl.Close()
	p.rl = nil
	return err
}

func (p *Prompter) readLine(prompt string) (string, error) {
	rl, err := p.instance()
	if err != nil {
		return "", err
	}
	rl.SetPrompt(prompt)
	line, err := rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return "", ErrCancelled
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Select shows a numbered list and returns the chosen index. An empty answer
// picks def.
func (p *Prompter) Select(question string, items []string, def int) (int, error) {
	out := p.stdout
	if out == nil {
		out = readline.Stdout
	}
	fmt.Fprintln(out, question)
	for i, item := range items {
		marker := " "
		if i == def {
			marker = ">"
		}
		fmt.Fprintf(out, " %s %d) %s\n", marker, i+1, item)
	}
	for {
		answer, err := p.readLine(fmt.Sprintf("Choice [%d]: ", def+1))
		if err != nil {
			return 0, err
		}
		idx, err := ResolveChoice(answer, items, def)
		if err == nil {
			return idx, nil
		}
		fmt.Fprintln(out, err)
	}
}

// Input asks for free text; an empty answer takes def. Empty answers are asked
// again when def is empty too.
func (p *Prompter) Input(question, def string) (string, error) {
	label := question + ": "
	if def != "" {
		label = fmt.Sprintf("%s [%s]: ", question, def)
	}
	for {
		answer, err := p.readLine(label)
		if err != nil {
			return "", err
		}
		if answer == "" {
			answer = def
		}
		if answer != "" {
			return answer, nil
		}
	}
}

// ResolveChoice maps an answer (1-based number or item name, any case) to an
// index in items.
func ResolveChoice(answer string, items []string, def int) (int, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		if def < 0 || def >= len(items) {
			return 0, fmt.Errorf("a choice is required")
		}
		return def, nil
	}
	if n, err := strconv.Atoi(answer); err == nil {
		if n < 1 || n > len(items) {
			return 0, fmt.Errorf("choose a number between 1 and %d", len(items))
		}
		return n - 1, nil
	}
	for i, item := range items {
		if strings.EqualFold(item, answer) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown choice %q", answer)
}
