package prompt

import (
	"fmt"

	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/list"
)

// Entry is one promptable input of a form.
type Entry struct {
	Label     string
	Path      string
	Multiline bool

	Current func() string
	Error   func() string
	Change  func(value string) error
	Blur    func() error
}

// FieldEntry prompts for a string field.
func FieldEntry(label, path string, f *field.Field[string]) Entry {
	return Entry{
		Label:   label,
		Path:    path,
		Current: f.Value,
		Error:   f.Error,
		Change: func(value string) error {
			return f.OnChange(field.ChangeEvent{Target: field.EventTarget{Value: value}})
		},
		Blur: func() error {
			f.OnBlur()
			return nil
		},
	}
}

// ListEntries prompts for the given string attributes of every record of l,
// in record order. Entries address records by position; rebuild them after
// the list is reinitialized.
func ListEntries[Item any](label, path string, l *list.List[Item], keys ...string) []Entry {
	out := make([]Entry, 0, l.Len()*len(keys))
	for index := 0; index < l.Len(); index++ {
		for _, key := range keys {
			target := list.Target{Index: index, Key: key}
			out = append(out, Entry{
				Label: fmt.Sprintf("%s #%d %s", label, index+1, key),
				Path:  fmt.Sprintf("%s.%d.%s", path, index, key),
				Current: func() string {
					cell, err := l.Cell(target)
					if err != nil {
						return ""
					}
					text, _ := cell.Value.(string)
					return text
				},
				Error: func() string {
					cell, err := l.Cell(target)
					if err != nil {
						return ""
					}
					return cell.Error
				},
				Change: func(value string) error {
					return l.UpdateField(target, value)
				},
				Blur: func() error {
					return l.ValidateField(target)
				},
			})
		}
	}
	return out
}
