// Package container provides dependency injection for the thesaurus CLI.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"
	"sync"
	"time"

	"nephila/thesaurus/internal/config"
	"nephila/thesaurus/internal/downloader"
	"nephila/thesaurus/internal/logging"
	"nephila/thesaurus/internal/metrics"
	"nephila/thesaurus/internal/parser"
	"nephila/thesaurus/internal/pdfparser"
	"nephila/thesaurus/internal/scheduler"
	"nephila/thesaurus/internal/store"
	"nephila/thesaurus/internal/thesaurus"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation apart from the raw store, which is
// opened on first use so that commands not touching the database never
// create it.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	parser     *pdfparser.Adapter
	downloader *downloader.Client
	metrics    *metrics.Metrics
	extractor  pdfparser.PDFExtractor

	storeOnce sync.Once
	store     *store.Store
	storeErr  error
}

// Option customizes a Container.
type Option func(*Container)

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(c *Container) { c.logger = logger }
}

// WithExtractor replaces the ledongthuc PDF extractor.
func WithExtractor(extractor pdfparser.PDFExtractor) Option {
	return func(c *Container) { c.extractor = extractor }
}

// NewContainer creates and wires all application dependencies.
// This is the main entry point for dependency injection in the application.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	layout, err := thesaurus.ParseLayout(cfg.Parser.Layout)
	if err != nil {
		return nil, fmt.Errorf("invalid parser layout: %w", err)
	}

	c := &Container{
		config:  cfg,
		logger:  logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg)),
		metrics: metrics.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.extractor == nil {
		c.extractor = pdfparser.NewLedongthucExtractor(cfg.PDF.DetectTables, cfg.PDF.CellGap, c.logger)
	}
	c.parser = pdfparser.NewAdapter(c.logger, c.extractor,
		thesaurus.Options{Layout: layout, ProbePages: cfg.Parser.ProbePages})

	c.downloader = downloader.NewClient(
		time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second,
		cfg.Fetch.UserAgent,
		cfg.Fetch.BaseURL,
		c.logger,
	)

	c.logger.Debug("Container initialized successfully",
		logging.Field{Key: logging.FieldLayout, Value: string(layout)},
		logging.Field{Key: "store_path", Value: cfg.Store.Path})

	return c, nil
}

// GetParser returns the thesaurus PDF parser.
func (c *Container) GetParser() parser.FullParser {
	return c.parser
}

// GetAdapter returns the concrete PDF adapter, for callers that need its
// conversion helpers.
func (c *Container) GetAdapter() *pdfparser.Adapter {
	return c.parser
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetDownloader returns the ANSM downloader.
func (c *Container) GetDownloader() *downloader.Client {
	return c.downloader
}

// GetMetrics returns the process metrics.
func (c *Container) GetMetrics() *metrics.Metrics {
	return c.metrics
}

// GetStore opens the raw store on first call and returns it.
func (c *Container) GetStore() (*store.Store, error) {
	c.storeOnce.Do(func() {
		c.store, c.storeErr = store.NewStore(c.config.Store.Path, c.logger)
	})
	return c.store, c.storeErr
}

// GetPipeline returns a fetch, parse and load pipeline configured from the
// fetch and metrics settings.
func (c *Container) GetPipeline() (*scheduler.Pipeline, error) {
	st, err := c.GetStore()
	if err != nil {
		return nil, err
	}
	p := scheduler.NewPipeline(c.downloader, c.parser, st, c.metrics, c.logger)
	p.PageURL = c.config.Fetch.PageURL
	p.Dest = c.config.Fetch.Dest
	p.MetricsTextfile = c.config.Metrics.Textfile
	return p, nil
}

// Close performs cleanup of container resources.
// This method should be called when the container is no longer needed.
func (c *Container) Close() error {
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			return fmt.Errorf("closing store: %w", err)
		}
	}
	c.logger.Debug("Container closed")
	return nil
}
