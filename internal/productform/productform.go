// Package productform wires the catalog product into a form: the fields,
// their validators, the binding to the product source and the submitter that
// sends the edited product back to the catalog.
package productform

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/goliatone/go-formstate/internal/catalog"
	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/list"
	"github.com/goliatone/go-formstate/pkg/observability"
	"github.com/goliatone/go-formstate/pkg/prompt"
	"github.com/goliatone/go-formstate/pkg/remote"
	"github.com/goliatone/go-formstate/pkg/rules"
	"github.com/goliatone/go-formstate/pkg/source"
	"github.com/goliatone/go-formstate/pkg/validation"
)

//go:embed rules/*.yaml
var rulesFS embed.FS

// ExpensiveMessage is reported for expensive products priced too low.
const ExpensiveMessage = "Expensive items must cost more than 1000 dollars"

// DefaultRules loads the built-in product rules.
func DefaultRules() (*rules.Set, error) {
	sub, err := fs.Sub(rulesFS, "rules")
	if err != nil {
		return nil, fmt.Errorf("productform: rules: %w", err)
	}
	return rules.LoadFS(sub)
}

// ExpensivePrice requires a price above 1000 when the linked title mentions
// "expensive".
func ExpensivePrice(price string, ctx validation.Context) string {
	amount, _ := strconv.ParseFloat(price, 64)
	if validation.LinkedContains(ctx, "expensive") && !(amount > 1000) {
		return ExpensiveMessage
	}
	return ""
}

// Updater is the catalog endpoint the form submits to.
type Updater interface {
	Update(ctx context.Context, product catalog.Product) ([]remote.Error, error)
}

// Option customises the product form.
type Option func(*settings)

type settings struct {
	rules    *rules.Set
	document *rules.Document
	observer observability.Observer
}

// WithRules merges extra rules after the built-in ones.
func WithRules(set *rules.Set) Option {
	return func(s *settings) {
		s.rules.Merge(set)
	}
}

// WithDocument checks every submission against doc before it reaches the
// catalog. Violations are returned as the submission's errors.
func WithDocument(doc *rules.Document) Option {
	return func(s *settings) {
		s.document = doc
	}
}

// WithObserver routes the events of every member to observer.
func WithObserver(observer observability.Observer) Option {
	return func(s *settings) {
		if observer != nil {
			s.observer = observer
		}
	}
}

// Product is the product form with direct access to its members.
type Product struct {
	Title       *field.Field[string]
	Description *field.Field[string]
	Option      *field.Field[string]
	Value       *field.Field[string]
	Price       *field.Field[string]
	Variants    *list.List[catalog.Variant]

	Form   *form.Form
	Source *source.Source[catalog.Product]

	unbind []func()
}

// New builds the product form over src. Accepted submissions are stored in
// src, which re-defaults every member.
func New(src *source.Source[catalog.Product], api Updater, opts ...Option) (*Product, error) {
	builtin, err := DefaultRules()
	if err != nil {
		return nil, err
	}
	s := &settings{rules: builtin, observer: observability.NoOpObserver{}}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	initial := src.Get()
	p := &Product{Source: src}

	if p.Title, err = textField("title", initial.Title, s); err != nil {
		return nil, err
	}
	if p.Description, err = textField("description", initial.Description, s); err != nil {
		return nil, err
	}
	if p.Option, err = textField("firstVariant.option", initial.FirstVariant.Option, s); err != nil {
		return nil, err
	}
	if p.Value, err = textField("firstVariant.value", initial.FirstVariant.Value, s); err != nil {
		return nil, err
	}
	if p.Price, err = textField("firstVariant.price", initial.FirstVariant.Price, s,
		field.WithValidators[string](ExpensivePrice),
		field.Linked[string](p.Title),
	); err != nil {
		return nil, err
	}

	p.Variants, err = list.New(initial.Variants,
		list.WithName("variants"),
		list.WithObserver(s.observer),
		list.Validates("price", s.rules.Validators("variants.price")),
		list.Validates("value", s.rules.Validators("variants.value")),
	)
	if err != nil {
		return nil, fmt.Errorf("productform: variants: %w", err)
	}

	p.Form, err = form.New(form.Fields{
		"title":       p.Title,
		"description": p.Description,
		"firstVariant": form.Group{
			"option": p.Option,
			"value":  p.Value,
			"price":  p.Price,
		},
		"variants": p.Variants,
	}, form.SubmitFunc(p.submitter(api, s.document)), form.WithName("product"), form.WithObserver(s.observer))
	if err != nil {
		return nil, fmt.Errorf("productform: %w", err)
	}

	p.bind()
	return p, nil
}

func textField(path, value string, s *settings, extra ...field.Option[string]) (*field.Field[string], error) {
	opts := []field.Option[string]{
		field.WithName[string](path),
		field.WithObserver[string](s.observer),
		field.WithValidators(rules.Chain[string](s.rules, path)...),
	}
	opts = append(opts, extra...)

	f, err := field.New(value, opts...)
	if err != nil {
		return nil, fmt.Errorf("productform: %s: %w", path, err)
	}
	return f, nil
}

func (p *Product) bind() {
	src := p.Source
	p.unbind = append(p.unbind,
		source.Bind(src, func(v catalog.Product) string { return v.Title }, source.Setter(p.Title.SetSource)),
		source.Bind(src, func(v catalog.Product) string { return v.Description }, source.Setter(p.Description.SetSource)),
		source.Bind(src, func(v catalog.Product) string { return v.FirstVariant.Option }, source.Setter(p.Option.SetSource)),
		source.Bind(src, func(v catalog.Product) string { return v.FirstVariant.Value }, source.Setter(p.Value.SetSource)),
		source.Bind(src, func(v catalog.Product) string { return v.FirstVariant.Price }, source.Setter(p.Price.SetSource)),
		source.Bind(src, func(v catalog.Product) []catalog.Variant { return v.Variants }, p.Variants.SetSource),
	)
}

func (p *Product) submitter(api Updater, doc *rules.Document) func(context.Context, form.Values) ([]remote.Error, error) {
	return func(ctx context.Context, values form.Values) ([]remote.Error, error) {
		if errs := doc.Check(map[string]any(values)); len(errs) > 0 {
			return errs, nil
		}
		product, err := Decode(values)
		if err != nil {
			return nil, err
		}
		errs, err := api.Update(ctx, product)
		if err != nil {
			return nil, err
		}
		if len(errs) == 0 {
			p.Source.Set(product)
		}
		return errs, nil
	}
}

// Entries lists the promptable inputs in display order. The first variant's
// option is fixed and not prompted.
func (p *Product) Entries() []prompt.Entry {
	description := prompt.FieldEntry("Description", "description", p.Description)
	description.Multiline = true

	entries := []prompt.Entry{
		prompt.FieldEntry("Title", "title", p.Title),
		description,
		prompt.FieldEntry("Value", "firstVariant.value", p.Value),
		prompt.FieldEntry("Price", "firstVariant.price", p.Price),
	}
	return append(entries, prompt.ListEntries("Variant", "variants", p.Variants, "value", "price")...)
}

// Close stops the source bindings and the form's member subscriptions.
func (p *Product) Close() {
	for _, stop := range p.unbind {
		stop()
	}
	p.unbind = nil
	p.Form.Close()
	p.Price.Close()
}

// Decode converts the form's value tree into a product.
func Decode(values form.Values) (catalog.Product, error) {
	data, err := json.Marshal(values)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("productform: encode values: %w", err)
	}
	var product catalog.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return catalog.Product{}, fmt.Errorf("productform: decode values: %w", err)
	}
	return product, nil
}
