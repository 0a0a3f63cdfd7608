package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/goliatone/go-formstate/internal/catalog"
	"github.com/goliatone/go-formstate/internal/config"
	"github.com/goliatone/go-formstate/internal/productform"
	"github.com/goliatone/go-formstate/pkg/observability"
	"github.com/goliatone/go-formstate/pkg/prompt"
	"github.com/goliatone/go-formstate/pkg/rules"
	"github.com/goliatone/go-formstate/pkg/source"
)

func main() {
	configPath := flag.String("config", "", "YAML or JSON config file")
	delay := flag.Duration("delay", 0, "catalog latency, e.g. 500ms")
	seed := flag.Uint64("seed", 0, "seed of the generated product")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error")
	rulesDir := flag.String("rules", "", "directory of extra rules documents")
	openapiPath := flag.String("openapi", "", "OpenAPI document to derive extra rules from")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}
	cfg.Merge(&config.Config{
		Catalog: config.CatalogConfig{Delay: *delay, Seed: *seed},
		Rules:   config.RulesConfig{Dir: *rulesDir, OpenAPI: *openapiPath},
		Log:     config.LogConfig{Level: *logLevel},
	})

	observability.RegisterObserver("slog", observability.NewSlogObserver(newLogger(cfg.Log)))
	configured, err := observability.Resolve(cfg.Log.Observer)
	if err != nil {
		log.Fatalf("Invalid observer: %v", err)
	}
	events := &observability.Buffer{}
	observer := observability.Tee(configured, events)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	extra, doc, err := loadRules(ctx, cfg.Rules)
	if err != nil {
		log.Fatalf("Failed to load rules: %v", err)
	}

	api := catalog.New(catalog.WithDelay(cfg.Catalog.Delay), catalog.WithSeed(cfg.Catalog.Seed))
	src := source.New(catalog.Product{}, source.WithName("product"), source.WithObserver(observer))

	fmt.Println("Loading product...")
	if err := src.Load(ctx, api.Fetch); err != nil {
		log.Fatalf("Failed to load product: %v", err)
	}

	product, err := productform.New(src, api, productform.WithRules(extra),
		productform.WithDocument(doc),
		productform.WithObserver(observer),
	)
	if err != nil {
		log.Fatalf("Failed to build form: %v", err)
	}
	defer product.Close()

	session, err := prompt.NewSession(prompt.NewSurveyDriver(os.Stdout), product.Form, product.Entries(),
		prompt.WithMaxAttempts(cfg.Session.MaxAttempts),
		prompt.WithEntries(product.Entries),
	)
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	if err := session.Run(ctx); err != nil {
		if errors.Is(err, prompt.ErrAborted) || errors.Is(err, context.Canceled) {
			fmt.Println("Aborted.")
			return
		}
		log.Fatalf("Session failed: %v", err)
	}
	fmt.Printf("Saved %q after %d submission(s).\n", src.Get().Title, events.Count(observability.EventFormSubmitComplete))
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func loadRules(ctx context.Context, cfg config.RulesConfig) (*rules.Set, *rules.Document, error) {
	set := rules.NewSet()

	if cfg.Dir != "" {
		loaded, err := rules.LoadFS(os.DirFS(cfg.Dir))
		if err != nil {
			return nil, nil, err
		}
		set.Merge(loaded)
	}

	if cfg.OpenAPI == "" {
		return set, nil, nil
	}

	data, err := os.ReadFile(cfg.OpenAPI)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", cfg.OpenAPI, err)
	}
	derived, err := rules.FromOpenAPI(ctx, data, cfg.Schema)
	if err != nil {
		return nil, nil, err
	}
	set.Merge(derived)

	doc, err := rules.DocumentFromOpenAPI(ctx, data, cfg.Schema)
	if err != nil {
		return nil, nil, err
	}
	return set, doc, nil
}
