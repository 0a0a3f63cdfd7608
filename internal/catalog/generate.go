package catalog

import (
	"fmt"
	"strings"
)

var (
	adjectives = []string{"Small", "Ergonomic", "Rustic", "Intelligent", "Gorgeous", "Incredible", "Sleek", "Handcrafted", "Refined", "Practical"}
	materials  = []string{"Steel", "Wooden", "Concrete", "Plastic", "Cotton", "Granite", "Rubber", "Metal", "Soft", "Fresh"}
	products   = []string{"Chair", "Table", "Shoes", "Hat", "Towels", "Gloves", "Pants", "Shirt", "Ball", "Keyboard", "Sausages", "Bacon"}
	colors     = []string{"red", "orange", "yellow", "lime", "teal", "indigo", "violet", "plum", "salmon", "tan", "ivory", "azure"}
	words      = []string{"lorem", "ipsum", "dolor", "sit", "amet", "consectetur", "adipiscing", "elit", "sed", "do", "eiusmod", "tempor", "incididunt", "labore", "dolore", "magna", "aliqua"}
)

func (a *API) generateLocked() Product {
	return Product{
		Title:       a.titleLocked(),
		Description: a.paragraphLocked(),
		FirstVariant: Variant{
			Option: "color",
			Value:  a.pickLocked(colors),
			Price:  fmt.Sprintf("%.2f", 1+a.rng.Float64()*999),
		},
		Variants: []Variant{
			{Option: "highlight color", Value: "red", Price: "0"},
			{Option: "color", Value: "blue", Price: "0"},
			{Option: "color", Value: "green", Price: "0"},
		},
	}
}

func (a *API) titleLocked() string {
	return strings.Join([]string{a.pickLocked(adjectives), a.pickLocked(materials), a.pickLocked(products)}, " ")
}

func (a *API) paragraphLocked() string {
	sentences := 3 + a.rng.IntN(3)
	out := make([]string, 0, sentences)
	for i := 0; i < sentences; i++ {
		n := 5 + a.rng.IntN(6)
		sentence := make([]string, n)
		for j := range sentence {
			sentence[j] = a.pickLocked(words)
		}
		sentence[0] = strings.ToUpper(sentence[0][:1]) + sentence[0][1:]
		out = append(out, strings.Join(sentence, " ")+".")
	}
	return strings.Join(out, " ")
}

func (a *API) pickLocked(options []string) string {
	return options[a.rng.IntN(len(options))]
}
