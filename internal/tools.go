package internal

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

var ErrTooManyTries = errors.New("too many tries")

type promptValidator func(string) (bool, string)

type promptConfig struct {
	tries     int
	validator promptValidator
}

type promptOption func(*promptConfig)

func WithValidator(v promptValidator) promptOption {
	return func(cfg *promptConfig) {
		cfg.validator = v
	}
}

func WithMaxTries(i int) promptOption {
	return func(cfg *promptConfig) {
		cfg.tries = i
	}
}

// Prompter reads line input from a connection. It keeps one buffered reader
// so no input is lost between prompts.
type Prompter struct {
	rw io.ReadWriter
	br *bufio.Reader
}

func NewPrompter(rw io.ReadWriter) *Prompter {
	return &Prompter{rw: rw, br: bufio.NewReader(rw)}
}

// Prompt writes prompt and returns the next line, trimmed of surrounding
// whitespace.
func (p *Prompter) Prompt(prompt string, opts ...promptOption) (string, error) {
	config := &promptConfig{}
	for _, opt := range opts {
		opt(config)
	}

	tries := 0
	for {
		_, err := io.WriteString(p.rw, prompt)
		if err != nil {
			return "", err
		}

		line, err := p.br.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		input := strings.TrimSpace(line)

		if config.validator != nil {
			ok, msg := config.validator(input)
			if !ok {
				if _, err := io.WriteString(p.rw, msg); err != nil {
					return "", err
				}

				tries++
				if config.tries > 0 && config.tries == tries {
					return "", ErrTooManyTries
				}

				continue
			}
		}

		return input, nil
	}
}
