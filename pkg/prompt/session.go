package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formstate/pkg/form"
)

const (
	actionSubmit = "Submit"
	actionEdit   = "Edit a field"
	actionReset  = "Reset"
	actionQuit   = "Quit"
)

// Option customises a Session.
type Option func(*Session)

// WithMaxAttempts bounds how often an entry is asked again while it reports
// an error. Zero means until it is valid.
func WithMaxAttempts(n int) Option {
	return func(s *Session) {
		if n >= 0 {
			s.maxAttempts = n
		}
	}
}

// WithEntries replaces the entry provider; it is called again before every
// edit so entries can follow reinitialized lists.
func WithEntries(provider func() []Entry) Option {
	return func(s *Session) {
		if provider != nil {
			s.entries = provider
		}
	}
}

// Session walks a form's entries through a Driver.
type Session struct {
	driver      Driver
	form        *form.Form
	entries     func() []Entry
	maxAttempts int
}

// NewSession returns a session editing f through driver.
func NewSession(driver Driver, f *form.Form, entries []Entry, opts ...Option) (*Session, error) {
	if driver == nil {
		return nil, errors.New("prompt: driver is required")
	}
	if f == nil {
		return nil, errors.New("prompt: form is required")
	}

	s := &Session{
		driver:      driver,
		form:        f,
		entries:     func() []Entry { return entries },
		maxAttempts: 3,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if len(s.entries()) == 0 {
		return nil, ErrNoEntries
	}
	return s, nil
}

// Fill asks every entry once, in order.
func (s *Session) Fill(ctx context.Context) error {
	for _, entry := range s.entries() {
		if err := s.Ask(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

// Ask prompts for one entry, feeding the answer through change and blur,
// and repeats while the entry reports an error.
func (s *Session) Ask(ctx context.Context, entry Entry) error {
	for attempt := 1; ; attempt++ {
		answer, err := s.read(ctx, entry)
		if err != nil {
			return err
		}
		if err := entry.Change(answer); err != nil {
			return fmt.Errorf("prompt: %s: %w", entry.Path, err)
		}
		if err := entry.Blur(); err != nil {
			return fmt.Errorf("prompt: %s: %w", entry.Path, err)
		}

		message := entry.Error()
		if message == "" {
			return nil
		}
		if err := s.driver.Info(ctx, fmt.Sprintf("  %s: %s", entry.Label, message)); err != nil {
			return err
		}
		if s.maxAttempts > 0 && attempt >= s.maxAttempts {
			return nil
		}
	}
}

func (s *Session) read(ctx context.Context, entry Entry) (string, error) {
	return s.driver.Ask(ctx, Question{
		Label:     entry.Label,
		Default:   entry.Current(),
		Help:      entry.Error(),
		Multiline: entry.Multiline,
	})
}

// Run fills the form and then loops over the action menu until the user
// quits or a submission succeeds without errors.
func (s *Session) Run(ctx context.Context) error {
	if err := s.Fill(ctx); err != nil {
		return err
	}

	actions := []string{actionSubmit, actionEdit, actionReset, actionQuit}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		choice, err := s.driver.Choose(ctx, Choice{Label: "What next?", Options: actions})
		if err != nil {
			return err
		}
		if choice < 0 || choice >= len(actions) {
			continue
		}

		switch actions[choice] {
		case actionSubmit:
			done, err := s.submit(ctx)
			if err != nil || done {
				return err
			}
		case actionEdit:
			if err := s.edit(ctx); err != nil {
				return err
			}
		case actionReset:
			ok, err := s.discard(ctx, "Discard your changes?")
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			s.form.Reset()
			if err := s.driver.Info(ctx, "Form reset."); err != nil {
				return err
			}
		case actionQuit:
			ok, err := s.discard(ctx, "Quit without saving?")
			if err != nil || ok {
				return err
			}
		}
	}
}

func (s *Session) submit(ctx context.Context) (bool, error) {
	if err := s.form.Submit(ctx); err != nil {
		if errors.Is(err, form.ErrSubmitInProgress) {
			return false, s.driver.Info(ctx, "A submission is already in progress.")
		}
		if infoErr := s.driver.Info(ctx, "Submit failed: "+err.Error()); infoErr != nil {
			return false, infoErr
		}
		return false, nil
	}

	summary, err := RenderSummary(s.form, s.entries())
	if err != nil {
		return false, err
	}
	if err := s.driver.Info(ctx, summary); err != nil {
		return false, err
	}
	return len(s.form.RemoteErrors()) == 0, nil
}

func (s *Session) edit(ctx context.Context) error {
	entries := s.entries()
	options := make([]string, len(entries))
	for i, entry := range entries {
		options[i] = entry.Label
	}

	choice, err := s.driver.Choose(ctx, Choice{Label: "Field", Options: options, PageSize: 10})
	if err != nil {
		return err
	}
	if choice < 0 || choice >= len(entries) {
		return nil
	}
	return s.Ask(ctx, entries[choice])
}

// discard asks before throwing away unsaved edits. A clean form needs no
// confirmation.
func (s *Session) discard(ctx context.Context, label string) (bool, error) {
	if !s.form.Dirty() {
		return true, nil
	}
	return s.driver.Confirm(ctx, label, false)
}
