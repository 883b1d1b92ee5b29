package main

import (
	"errors"

	"github.com/chzyer/readline"

	"github.com/omegasovereign/omega/gate/internal/session"
)

// linePrompter reads operator input through readline.
type linePrompter struct {
	rl *readline.Instance
}

func newLinePrompter() (*linePrompter, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "  > ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}
	return &linePrompter{rl: rl}, nil
}

func (p *linePrompter) Prompt(prompt string) (string, error) {
	p.rl.SetPrompt(prompt)
	line, err := p.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", session.ErrAborted
	}
	return line, err
}

func (p *linePrompter) Close() error { return p.rl.Close() }
