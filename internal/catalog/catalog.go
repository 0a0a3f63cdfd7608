// Package catalog is an in-memory product API with artificial latency. It
// stands in for a remote backend: Fetch returns a generated product and
// Update applies server-side checks, returning path-addressed errors.
package catalog

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-formstate/pkg/remote"
)

// Variant is one purchasable variation of a product.
type Variant struct {
	Option string `json:"option" yaml:"option"`
	Value  string `json:"value" yaml:"value"`
	Price  string `json:"price" yaml:"price"`
}

// Product is the record edited by the demo form.
type Product struct {
	Title        string    `json:"title" yaml:"title"`
	Description  string    `json:"description" yaml:"description"`
	FirstVariant Variant   `json:"firstVariant" yaml:"firstVariant"`
	Variants     []Variant `json:"variants" yaml:"variants"`
}

// Option customises an API.
type Option func(*API)

// WithDelay sets the latency of every call.
func WithDelay(delay time.Duration) Option {
	return func(a *API) {
		if delay >= 0 {
			a.delay = delay
		}
	}
}

// WithSeed seeds the product generator.
func WithSeed(seed uint64) Option {
	return func(a *API) {
		a.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithProduct makes Fetch return product instead of a generated one.
func WithProduct(product Product) Option {
	return func(a *API) {
		stored := product
		a.product = &stored
	}
}

// API is the fake backend.
type API struct {
	delay time.Duration

	mu      sync.Mutex
	rng     *rand.Rand
	product *Product
	updates int
}

// New returns an API with a two second delay and a fixed seed.
func New(opts ...Option) *API {
	a := &API{delay: 2 * time.Second}
	WithSeed(1)(a)
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Fetch returns the stored product, generating one on first use.
func (a *API) Fetch(ctx context.Context) (Product, error) {
	if err := a.wait(ctx); err != nil {
		return Product{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.product == nil {
		generated := a.generateLocked()
		a.product = &generated
	}
	return clone(*a.product), nil
}

// Update validates product and stores it when it passes. Titles mentioning
// cars are refused with a form-level error; prices are checked per variant.
func (a *API) Update(ctx context.Context, product Product) ([]remote.Error, error) {
	if err := a.wait(ctx); err != nil {
		return nil, err
	}

	if errs := check(product); len(errs) > 0 {
		return errs, nil
	}

	a.mu.Lock()
	stored := clone(product)
	a.product = &stored
	a.updates++
	a.mu.Unlock()
	return nil, nil
}

// Updates counts the accepted updates.
func (a *API) Updates() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.updates
}

func check(product Product) []remote.Error {
	var errs []remote.Error
	if strings.Contains(strings.ToLower(product.Title), "car") {
		errs = append(errs, remote.FormLevel("No cars allowed"))
	}
	if message := priceProblem(product.FirstVariant.Price); message != "" {
		errs = append(errs, remote.At(message, "firstVariant", "price"))
	}
	for i, variant := range product.Variants {
		if message := priceProblem(variant.Price); message != "" {
			errs = append(errs, remote.At(message, "variants", i, "price"))
		}
	}
	return errs
}

func priceProblem(raw string) string {
	if raw == "" {
		return ""
	}
	price, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return "Invalid price"
	}
	if price < 0 {
		return "Price cannot be negative"
	}
	return ""
}

func (a *API) wait(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if a.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(a.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("catalog: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

func clone(product Product) Product {
	out := product
	out.Variants = append([]Variant(nil), product.Variants...)
	return out
}
