package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidInput is returned when an answer cannot be parsed.
var ErrInvalidInput = errors.New("invalid input")

// maxPromptAttempts bounds how often a prompt is repeated after a bad answer.
const maxPromptAttempts = 3

// Prompter asks interactive questions on a terminal.
type Prompter struct {
	writer io.Writer
	reader *NonBlockingReader
}

// NewPrompter creates a prompter. Nil arguments default to stdin and stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: NewNonBlockingReader(reader),
		writer: writer,
	}
}

// Confirm asks a yes/no question. An empty answer means no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := p.ask(ctx, question+" [y/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Ask reads a free text answer, returning def when the answer is empty.
func (p *Prompter) Ask(ctx context.Context, label, def string) (string, error) {
	prompt := label
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", label, def)
	}
	answer, err := p.ask(ctx, prompt)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Choose asks for one of options, matched case-insensitively.
func (p *Prompter) Choose(ctx context.Context, label string, options []string) (string, error) {
	prompt := fmt.Sprintf("%s (%s)", label, strings.Join(options, "/"))
	return retryPrompt(p, ctx, prompt, func(answer string) (string, error) {
		for _, opt := range options {
			if strings.EqualFold(opt, answer) {
				return opt, nil
			}
		}
		return "", fmt.Errorf("%w: choose one of %s", ErrInvalidInput, strings.Join(options, ", "))
	})
}

// AskAmount reads a positive decimal amount such as "12.50".
func (p *Prompter) AskAmount(ctx context.Context, label string) (float64, error) {
	return retryPrompt(p, ctx, label, func(answer string) (float64, error) {
		amount, err := strconv.ParseFloat(strings.TrimPrefix(answer, "$"), 64)
		if err != nil || amount <= 0 {
			return 0, fmt.Errorf("%w: enter an amount greater than zero", ErrInvalidInput)
		}
		return amount, nil
	})
}

// AskDate reads a YYYY-MM-DD date in loc, returning def when empty.
func (p *Prompter) AskDate(ctx context.Context, label string, def time.Time, loc *time.Location) (time.Time, error) {
	prompt := fmt.Sprintf("%s [%s]", label, def.Format(time.DateOnly))
	return retryPrompt(p, ctx, prompt, func(answer string) (time.Time, error) {
		if answer == "" {
			return def, nil
		}
		d, err := time.ParseInLocation(time.DateOnly, answer, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: use YYYY-MM-DD", ErrInvalidInput)
		}
		return d, nil
	})
}

func (p *Prompter) ask(ctx context.Context, prompt string) (string, error) {
	if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	line, err := p.reader.ReadLine(ctx)
	if errors.Is(err, io.EOF) {
		return line, nil
	}
	return line, err
}

// retryPrompt repeats a prompt until parse accepts the answer.
func retryPrompt[T any](p *Prompter, ctx context.Context, prompt string, parse func(string) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for range maxPromptAttempts {
		answer, err := p.ask(ctx, prompt)
		if err != nil {
			return zero, err
		}
		value, err := parse(answer)
		if err == nil {
			return value, nil
		}
		lastErr = err
		if _, werr := fmt.Fprintln(p.writer, FormatError(err.Error())); werr != nil {
			return zero, fmt.Errorf("failed to write error: %w", werr)
		}
	}
	return zero, lastErr
}
