package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/c360studio/semdoc/concept"
	"github.com/c360studio/semdoc/config"
	"github.com/c360studio/semdoc/extract"
	"github.com/c360studio/semdoc/graph"
	"github.com/c360studio/semdoc/ontology"
	"github.com/c360studio/semdoc/pipeline"
	"github.com/c360studio/semdoc/queue"
)

// appOptions holds persistent flag values shared by every subcommand.
type appOptions struct {
	configPath string
	storePath  string
	logLevel   string
}

// App wires configuration and logging for one command invocation.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
}

// newApp configures logging and loads configuration. An explicit
// --config path skips the user/project config layering; --store
// overrides the store location either way.
func newApp(opts *appOptions) (*App, error) {
	logger := setupLogging(opts.logLevel)

	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFromFile(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		if cfg.Store.Path == "" {
			if home, herr := os.UserHomeDir(); herr == nil {
				cfg.Store.Path = filepath.Join(home, config.DataDir, config.StoreFile)
			}
		}
	} else {
		cfg, err = config.NewLoader(logger).Load()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	if opts.storePath != "" {
		cfg.Store.Path = opts.storePath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &App{cfg: cfg, logger: logger}, nil
}

// openStore opens the graph store in the requested mode.
func (a *App) openStore(readOnly bool) (*graph.Store, error) {
	store, err := graph.Open(graph.Config{
		Path:     a.cfg.Store.Path,
		ReadOnly: readOnly,
	}, graph.WithLogger(a.logger))
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", a.cfg.Store.Path, err)
	}
	return store, nil
}

// newProcessor builds the document pipeline over the given store.
func (a *App) newProcessor(store *graph.Store) *pipeline.Processor {
	extractor := extract.NewClient(a.cfg.Extractor.Endpoint,
		extract.WithThreshold(a.cfg.Extractor.Threshold),
		extract.WithContextWindow(a.cfg.Extractor.ContextWindow),
		extract.WithHTTPClient(&http.Client{Timeout: a.cfg.Extractor.Timeout}),
		extract.WithLogger(a.logger),
	)
	resolver := concept.NewResolver()
	mapper := ontology.NewMapper(
		ontology.WithWindow(a.cfg.Mapper.CoOccurrenceWindow),
		ontology.WithLogger(a.logger),
	)

	popts := []pipeline.Option{pipeline.WithLogger(a.logger)}
	if a.cfg.Output.Dir != "" {
		popts = append(popts, pipeline.WithOutputDir(a.cfg.Output.Dir))
	}
	return pipeline.New(extractor, resolver, mapper, store, popts...)
}

// connectPublisher connects to NATS for queued submission.
func (a *App) connectPublisher() (*queue.Publisher, error) {
	pub, err := queue.Connect(a.cfg.NATS.URL, a.logger)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", a.cfg.NATS.URL, err)
	}
	return pub, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// printResult prints a one-document processing summary.
func printResult(res *pipeline.Result) {
	fmt.Printf("Document: %s\n", res.DocumentID)
	if res.Title != "" {
		fmt.Printf("  Title:      %s\n", res.Title)
	}
	fmt.Printf("  Type:       %s\n", res.Type)
	fmt.Printf("  Concepts:   %d\n", res.Concepts)
	fmt.Printf("  Statements: %d (%d new, %d skipped)\n", res.Statements, res.Inserted, res.Skipped)
	fmt.Printf("  Elapsed:    %s\n", res.Elapsed.Round(time.Millisecond))
}
