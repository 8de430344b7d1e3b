package cli

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/huh"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("aborted")

// Prompter asks the user for input. The huh implementation drives the
// terminal; tests use a scripted one.
type Prompter interface {
	Select(ctx context.Context, title string, options []string) (string, error)
	Input(ctx context.Context, title string, validate func(string) error) (string, error)
	Confirm(ctx context.Context, title string) (bool, error)
}

// HuhPrompter renders prompts with charmbracelet/huh.
type HuhPrompter struct {
	in         io.Reader
	out        io.Writer
	accessible bool
}

// NewHuhPrompter builds a prompter on the given streams. Accessible mode
// replaces the full-screen widgets with plain line prompts, which also
// works when input is piped.
func NewHuhPrompter(in io.Reader, out io.Writer, accessible bool) *HuhPrompter {
	return &HuhPrompter{in: in, out: out, accessible: accessible}
}

func (p *HuhPrompter) run(ctx context.Context, field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithInput(p.in).
		WithOutput(p.out).
		WithAccessible(p.accessible).
		WithShowHelp(false)
	err := form.RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}

func (p *HuhPrompter) Select(ctx context.Context, title string, options []string) (string, error) {
	var choice string
	field := huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(&choice)
	if err := p.run(ctx, field); err != nil {
		return "", err
	}
	return choice, nil
}

func (p *HuhPrompter) Input(ctx context.Context, title string, validate func(string) error) (string, error) {
	var value string
	field := huh.NewInput().
		Title(title).
		Value(&value)
	if validate != nil {
		field = field.Validate(validate)
	}
	if err := p.run(ctx, field); err != nil {
		return "", err
	}
	return value, nil
}

func (p *HuhPrompter) Confirm(ctx context.Context, title string) (bool, error) {
	var ok bool
	field := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok)
	if err := p.run(ctx, field); err != nil {
		return false, err
	}
	return ok, nil
}
