package observability

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

var registry = struct {
	sync.RWMutex
	byName map[string]Observer
}{
	byName: map[string]Observer{
		"noop": NoOpObserver{},
		"slog": NewSlogObserver(slog.Default()),
	},
}

// GetObserver returns the observer registered under name. "noop" and "slog"
// (backed by slog.Default) are always available unless replaced.
func GetObserver(name string) (Observer, error) {
	registry.RLock()
	defer registry.RUnlock()

	observer, ok := registry.byName[strings.TrimSpace(name)]
	if !ok {
		return nil, fmt.Errorf("observability: unknown observer %q", name)
	}
	return observer, nil
}

// RegisterObserver adds or replaces a named observer. A nil observer removes
// the name.
func RegisterObserver(name string, observer Observer) {
	registry.Lock()
	defer registry.Unlock()

	if observer == nil {
		delete(registry.byName, name)
		return
	}
	registry.byName[name] = observer
}

// Names lists the registered observer names in sorted order.
func Names() []string {
	registry.RLock()
	defer registry.RUnlock()

	out := make([]string, 0, len(registry.byName))
	for name := range registry.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Resolve turns a comma separated list of names ("slog,buffer") into one
// observer that feeds all of them. An empty list resolves to NoOpObserver.
func Resolve(names string) (Observer, error) {
	var observers []Observer
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		observer, err := GetObserver(name)
		if err != nil {
			return nil, err
		}
		observers = append(observers, observer)
	}
	return Tee(observers...), nil
}
