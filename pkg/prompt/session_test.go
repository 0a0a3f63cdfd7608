package prompt_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/list"
	"github.com/goliatone/go-formstate/pkg/prompt"
	"github.com/goliatone/go-formstate/pkg/remote"
	"github.com/goliatone/go-formstate/pkg/validation"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirms     []bool
	infoMessages []string
	inputPos     int
	selectPos    int
	prompts      []prompt.Question
	confirmed    []string
}

func (s *stubDriver) Ask(_ context.Context, q prompt.Question) (string, error) {
	s.prompts = append(s.prompts, q)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, label string, _ bool) (bool, error) {
	s.confirmed = append(s.confirmed, label)
	if len(s.confirms) == 0 {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirms[0]
	s.confirms = s.confirms[1:]
	return val, nil
}

func (s *stubDriver) Choose(_ context.Context, _ prompt.Choice) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}
func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func newTitle() *field.Field[string] {
	return field.MustNew("", field.Validates[string]([]validation.Validator[string]{
		validation.NotEmpty("Title is required"),
		validation.LengthMoreThan(3, "Title must be more than 3 characters"),
	}))
}

func TestSession_AskRepromptsWhileInvalid(t *testing.T) {
	title := newTitle()
	f := form.MustNew(form.Fields{"title": title}, nil)
	driver := &stubDriver{inputs: []string{"", "abc", "Widget"}}

	session, err := prompt.NewSession(driver, f, []prompt.Entry{prompt.FieldEntry("Title", "title", title)}, prompt.WithMaxAttempts(0))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := session.Fill(context.Background()); err != nil {
		t.Fatalf("fill: %v", err)
	}

	if title.Value() != "Widget" || title.Error() != "" {
		t.Fatalf("unexpected title state: %+v", title.State())
	}
	if len(driver.infoMessages) != 2 {
		t.Fatalf("expected 2 error notices, got %v", driver.infoMessages)
	}
	if driver.prompts[1].Help != "Title is required" || driver.prompts[1].Default != "" {
		t.Fatalf("re-prompt should carry the error as help: %+v", driver.prompts[1])
	}
}

func TestSession_AskStopsAfterMaxAttempts(t *testing.T) {
	title := newTitle()
	f := form.MustNew(form.Fields{"title": title}, nil)
	driver := &stubDriver{inputs: []string{"", ""}}

	session, _ := prompt.NewSession(driver, f, []prompt.Entry{prompt.FieldEntry("Title", "title", title)}, prompt.WithMaxAttempts(2))
	if err := session.Fill(context.Background()); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if title.Error() != "Title is required" {
		t.Fatalf("expected error to remain, got %q", title.Error())
	}
	if driver.inputPos != 2 {
		t.Fatalf("expected 2 prompts, got %d", driver.inputPos)
	}
}

type variant struct {
	Option string `json:"option"`
	Value  string `json:"value"`
}

func TestListEntries(t *testing.T) {
	variants := list.MustNew([]variant{{Option: "color", Value: "red"}, {Option: "color", Value: "blue"}},
		list.Validates("value", validation.UniqueAmongSiblings("value", "option", "Value must be unique!")),
	)
	entries := prompt.ListEntries("Variant", "variants", variants, "value")
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Label != "Variant #2 value" || entries[1].Path != "variants.1.value" {
		t.Fatalf("unexpected entry: %s %s", entries[1].Label, entries[1].Path)
	}

	f := form.MustNew(form.Fields{"variants": variants}, nil)
	driver := &stubDriver{inputs: []string{"red", "green"}}
	session, _ := prompt.NewSession(driver, f, entries[1:], prompt.WithMaxAttempts(0))

	if err := session.Fill(context.Background()); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if entries[1].Current() != "green" || entries[1].Error() != "" {
		t.Fatalf("unexpected cell: %q %q", entries[1].Current(), entries[1].Error())
	}
	if len(driver.infoMessages) != 1 || !strings.Contains(driver.infoMessages[0], "Value must be unique!") {
		t.Fatalf("expected uniqueness notice, got %v", driver.infoMessages)
	}
}

func TestSession_RunSubmitsUntilClean(t *testing.T) {
	title := newTitle()
	attempts := 0
	f := form.MustNew(form.Fields{"title": title}, form.SubmitFunc(func(_ context.Context, values form.Values) ([]remote.Error, error) {
		attempts++
		if strings.Contains(strings.ToLower(values["title"].(string)), "car") {
			return []remote.Error{remote.FormLevel("No cars allowed")}, nil
		}
		return nil, nil
	}))

	driver := &stubDriver{
		inputs:    []string{"Race car", "Bicycle"},
		selectIdx: []int{0, 1, 0, 0},
	}
	session, _ := prompt.NewSession(driver, f, []prompt.Entry{prompt.FieldEntry("Title", "title", title)})

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 submissions, got %d", attempts)
	}

	joined := strings.Join(driver.infoMessages, "\n")
	if !strings.Contains(joined, "! No cars allowed") {
		t.Fatalf("summary should list the form error, got %q", joined)
	}
	if !strings.Contains(driver.infoMessages[len(driver.infoMessages)-1], "Title: Bicycle") {
		t.Fatalf("final summary should show the new title, got %q", driver.infoMessages[len(driver.infoMessages)-1])
	}
}

func TestSession_RunPropagatesAbort(t *testing.T) {
	title := newTitle()
	f := form.MustNew(form.Fields{"title": title}, nil)
	driver := &abortingDriver{}
	session, _ := prompt.NewSession(driver, f, []prompt.Entry{prompt.FieldEntry("Title", "title", title)})

	if err := session.Run(context.Background()); !errors.Is(err, prompt.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

type abortingDriver struct {
	stubDriver
}

func (d *abortingDriver) Ask(context.Context, prompt.Question) (string, error) {
	return "", prompt.ErrAborted
}

func TestSession_RunConfirmsBeforeDiscarding(t *testing.T) {
	title := newTitle()
	f := form.MustNew(form.Fields{"title": title}, nil)

	// Fill, refuse the reset, accept the reset, then quit on a clean form.
	driver := &stubDriver{
		inputs:    []string{"Widget"},
		selectIdx: []int{2, 2, 3},
		confirms:  []bool{false, true},
	}
	session, _ := prompt.NewSession(driver, f, []prompt.Entry{prompt.FieldEntry("Title", "title", title)})

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(driver.confirmed) != 2 || driver.confirmed[0] != "Discard your changes?" {
		t.Fatalf("unexpected confirmations %v", driver.confirmed)
	}
	if title.Value() != "" || f.Dirty() {
		t.Fatalf("accepted reset should restore the default, got %q", title.Value())
	}
	if len(driver.infoMessages) == 0 || driver.infoMessages[len(driver.infoMessages)-1] != "Form reset." {
		t.Fatalf("expected reset notice, got %v", driver.infoMessages)
	}
}

func TestNewSession_Validation(t *testing.T) {
	f := form.MustNew(form.Fields{}, nil)
	if _, err := prompt.NewSession(&stubDriver{}, f, nil); !errors.Is(err, prompt.ErrNoEntries) {
		t.Fatalf("expected ErrNoEntries, got %v", err)
	}
	if _, err := prompt.NewSession(nil, f, nil); err == nil {
		t.Fatalf("expected error without driver")
	}
}

func TestRenderSummary(t *testing.T) {
	title := field.MustNew("Widget")
	f := form.MustNew(form.Fields{"title": title}, nil)
	title.Update("Car <b>")
	f.SetRemoteErrors([]remote.Error{remote.FormLevel("No cars allowed"), remote.At("Too short", "title")})

	out, err := prompt.RenderSummary(f, []prompt.Entry{prompt.FieldEntry("Title", "title", title)})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{"Title: Car <b>  [Too short]", "! No cars allowed", "(unsaved changes)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}
