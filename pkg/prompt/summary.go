package prompt

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formstate/pkg/form"
)

//go:embed templates/*.tpl
var templateFS embed.FS

var (
	summaryOnce sync.Once
	summaryTpl  *pongo2.Template
	summaryErr  error
)

func summaryTemplate() (*pongo2.Template, error) {
	summaryOnce.Do(func() {
		set := pongo2.NewSet("formstate-prompt", pongo2.NewFSLoader(templateFS))
		summaryTpl, summaryErr = set.FromFile("templates/summary.tpl")
	})
	return summaryTpl, summaryErr
}

// RenderSummary renders the state of f: every entry with its value and
// error, then the form-level errors and flags.
func RenderSummary(f *form.Form, entries []Entry) (string, error) {
	tpl, err := summaryTemplate()
	if err != nil {
		return "", fmt.Errorf("prompt: load summary template: %w", err)
	}

	rows := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, map[string]any{
			"label": entry.Label,
			"value": entry.Current(),
			"error": entry.Error(),
		})
	}

	out, err := tpl.Execute(pongo2.Context{
		"entries":    rows,
		"formErrors": f.FormErrors(),
		"dirty":      f.Dirty(),
		"submitting": f.Submitting(),
	})
	if err != nil {
		return "", fmt.Errorf("prompt: render summary: %w", err)
	}
	return strings.TrimRight(out, "\n"), nil
}
