// Package container provides dependency injection for the revol-ver application.
// It centralizes the creation and wiring of all application dependencies.
package container

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"fjacquet/revol-ver/internal/categorizer"
	"fjacquet/revol-ver/internal/config"
	"fjacquet/revol-ver/internal/export"
	"fjacquet/revol-ver/internal/fileutils"
	"fjacquet/revol-ver/internal/harparser"
	"fjacquet/revol-ver/internal/logging"
	"fjacquet/revol-ver/internal/models"
	"fjacquet/revol-ver/internal/pipeline"
	"fjacquet/revol-ver/internal/repository"
	"fjacquet/revol-ver/internal/revolutapi"
	"fjacquet/revol-ver/internal/revolutparser"
	"fjacquet/revol-ver/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Everything except the database is built eagerly. The database is opened on
// first use so that runs which never touch it do not create the file.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	store      *store.CategoryStore
	resolver   *categorizer.Resolver
	normalizer *revolutparser.Normalizer
	client     *revolutapi.Client
	extractor  *harparser.Extractor
	pipeline   *pipeline.Pipeline
	writer     export.Writer

	db           *sql.DB
	transactions *repository.TransactionRepo
	runs         *repository.RunRepo
}

// NewContainer creates and wires all application dependencies using a logger
// built from the configuration.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger is NewContainer with an explicit logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	categoryStore := store.NewCategoryStore(cfg.General.CategoriesFile, logger)
	resolver, err := categorizer.NewResolverFromStore(categoryStore, cfg.Categories, logger)
	if err != nil {
		return nil, fmt.Errorf("error loading categories: %w", err)
	}

	normalizer := revolutparser.NewNormalizer(resolver, cfg.Location(), logger)

	client := revolutapi.NewClient(revolutapi.Options{
		BaseURL:           cfg.API.BaseURL,
		PageSize:          cfg.API.PageSize,
		Timeout:           cfg.Timeout(),
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Location:          cfg.Location(),
	}, logger)

	writer, err := export.NewWriter(cfg.Export.Format, cfg.General.ExportDir, cfg.Delimiter(), logger)
	if err != nil {
		return nil, err
	}

	logger.Debug("Container initialized successfully",
		logging.F("categories", resolver.Len()),
		logging.F("export_format", writer.Format()))

	return &Container{
		logger:     logger,
		config:     cfg,
		store:      categoryStore,
		resolver:   resolver,
		normalizer: normalizer,
		client:     client,
		extractor:  harparser.NewExtractor(logger),
		pipeline:   pipeline.New(normalizer, logger),
		writer:     writer,
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the category store.
func (c *Container) GetStore() *store.CategoryStore {
	return c.store
}

// GetResolver returns the category resolver.
func (c *Container) GetResolver() *categorizer.Resolver {
	return c.resolver
}

// GetClient returns the API client.
func (c *Container) GetClient() *revolutapi.Client {
	return c.client
}

// GetExtractor returns the HAR credential extractor.
func (c *Container) GetExtractor() *harparser.Extractor {
	return c.extractor
}

// GetPipeline returns the ingestion pipeline.
func (c *Container) GetPipeline() *pipeline.Pipeline {
	return c.pipeline
}

// GetWriter returns the export writer selected by export.format.
func (c *Container) GetWriter() export.Writer {
	return c.writer
}

// TracePath is the location of the captured HAR trace.
func (c *Container) TracePath() string {
	return filepath.Join(c.config.General.InputDir, models.TraceFileName)
}

// StaticInputPath is the location of the static JSON dump.
func (c *Container) StaticInputPath() string {
	return filepath.Join(c.config.General.InputDir, models.StaticInputFileName)
}

// Source returns the record source for the given kind and period.
func (c *Container) Source(kind string, period models.Period) (pipeline.Source, error) {
	switch kind {
	case models.SourceWebRequest:
		return pipeline.NewWebSource(c.extractor, c.client, c.TracePath(), period,
			c.config.General.LookbackYears, c.logger), nil
	case models.SourceFile:
		return pipeline.NewFileSource(c.StaticInputPath(), c.logger), nil
	default:
		return nil, fmt.Errorf("unknown source: %s", kind)
	}
}

// DatabaseExists reports whether the configured database file is present.
func (c *Container) DatabaseExists() bool {
	return fileutils.FileExists(c.config.General.DatabaseFile)
}

// Repositories opens the database on first call and returns its repositories.
func (c *Container) Repositories() (*repository.TransactionRepo, *repository.RunRepo, error) {
	if c.db == nil {
		path := c.config.General.DatabaseFile
		if dir := filepath.Dir(path); dir != "." {
			if err := fileutils.EnsureDirectoryExists(dir); err != nil {
				return nil, nil, err
			}
		}
		db, err := repository.InitDB(path)
		if err != nil {
			return nil, nil, fmt.Errorf("error opening database %s: %w", path, err)
		}
		c.logger.Debug("Opened database", logging.F(logging.FieldFile, path))
		c.db = db
		c.transactions = repository.NewTransactionRepo(db)
		c.runs = repository.NewRunRepo(db)
	}
	return c.transactions, c.runs, nil
}

// Close releases the database if it was opened.
func (c *Container) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	c.transactions = nil
	c.runs = nil
	return err
}
