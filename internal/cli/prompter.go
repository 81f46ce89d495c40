package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompter asks yes/no questions on a terminal.
type Prompter struct {
	writer    io.Writer
	reader    *NonBlockingReader
	assumeYes bool
}

// NewCLIPrompter creates a new CLI prompter with the given reader and writer.
// With assumeYes every question is answered yes without reading input.
func NewCLIPrompter(reader io.Reader, writer io.Writer, assumeYes bool) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	return &Prompter{
		reader:    NewNonBlockingReader(reader),
		writer:    writer,
		assumeYes: assumeYes,
	}
}

// Confirm shows message and waits for y or n. Empty input and end of input
// mean no.
func (p *Prompter) Confirm(ctx context.Context, message string) (bool, error) {
	if _, err := fmt.Fprintln(p.writer, FormatWarning(message)); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}
	if p.assumeYes {
		return true, nil
	}

	for {
		if _, err := fmt.Fprint(p.writer, FormatPrompt("Continue? [y/N]")); err != nil {
			return false, fmt.Errorf("failed to write prompt: %w", err)
		}

		input, err := p.reader.ReadLine(ctx)
		if errors.Is(err, ErrInputCancelled) {
			return false, ctx.Err()
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}

		switch strings.ToLower(input) {
		case "y", "yes":
			return true, nil
		case "", "n", "no":
			return false, nil
		}
		if errors.Is(err, io.EOF) {
			return false, nil
		}

		if _, err := fmt.Fprintln(p.writer, FormatError("Please answer y or n.")); err != nil {
			return false, fmt.Errorf("failed to write prompt: %w", err)
		}
	}
}

// Ask shows prompt and returns the trimmed answer.
func (p *Prompter) Ask(ctx context.Context, prompt string) (string, error) {
	if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	input, err := p.reader.ReadLine(ctx)
	if errors.Is(err, ErrInputCancelled) {
		return "", ctx.Err()
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if input == "" && errors.Is(err, io.EOF) {
		return "", io.ErrUnexpectedEOF
	}
	return input, nil
}
