package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// Question asks for the text of one entry. Help carries the entry's current
// validation error when it is asked again.
type Question struct {
	Label     string
	Default   string
	Help      string
	Multiline bool
}

// Choice picks one of Options. Default is an index into Options; PageSize
// limits how many options are visible at once.
type Choice struct {
	Label    string
	Options  []string
	Default  int
	PageSize int
}

// Driver is the terminal a Session talks to. Implementations return
// ErrAborted when the user interrupts a prompt.
type Driver interface {
	Ask(ctx context.Context, q Question) (string, error)
	Confirm(ctx context.Context, label string, def bool) (bool, error)
	Choose(ctx context.Context, c Choice) (int, error)
	Info(ctx context.Context, msg string) error
}

type surveyDriver struct {
	out io.Writer
}

// NewSurveyDriver returns a Driver backed by survey on the process terminal.
// Info messages go to out, or stdout when out is nil.
func NewSurveyDriver(out io.Writer) Driver {
	if out == nil {
		out = os.Stdout
	}
	return &surveyDriver{out: out}
}

func (d *surveyDriver) Ask(ctx context.Context, q Question) (string, error) {
	if q.Multiline {
		return askOne[string](ctx, &survey.Multiline{Message: q.Label, Default: q.Default, Help: q.Help})
	}
	return askOne[string](ctx, &survey.Input{Message: q.Label, Default: q.Default, Help: q.Help})
}

func (d *surveyDriver) Confirm(ctx context.Context, label string, def bool) (bool, error) {
	return askOne[bool](ctx, &survey.Confirm{Message: label, Default: def})
}

func (d *surveyDriver) Choose(ctx context.Context, c Choice) (int, error) {
	p := &survey.Select{Message: c.Label, Options: c.Options}
	if c.PageSize > 0 {
		p.PageSize = c.PageSize
	}
	if c.Default >= 0 && c.Default < len(c.Options) {
		p.Default = c.Options[c.Default]
	}

	picked, err := askOne[string](ctx, p)
	if err != nil {
		return -1, err
	}
	return slices.Index(c.Options, picked), nil
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

func askOne[T any](ctx context.Context, p survey.Prompt) (T, error) {
	var answer T
	if err := ctx.Err(); err != nil {
		return answer, err
	}
	if err := survey.AskOne(p, &answer); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return answer, ErrAborted
		}
		return answer, err
	}
	return answer, nil
}
