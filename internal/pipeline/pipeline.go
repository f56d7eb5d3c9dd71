// Package pipeline runs one county scrape: fetch, extract, load, build, append, save.
//
// Steps run strictly in order and the first failure aborts the run. Nothing is rolled
// back, and the table file is only touched by the final save.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rickpr/data-covid19-sfbayarea/internal/county"
	"github.com/rickpr/data-covid19-sfbayarea/internal/logger"
	"github.com/rickpr/data-covid19-sfbayarea/internal/table"
)

// Fetcher retrieves and parses a page
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// Store loads and saves county tables
type Store interface {
	Path(dataPath string) string
	Load(dataPath string) (*table.Table, error)
	Save(dataPath string, tbl *table.Table) error
}

// Options configure a Pipeline
type Options struct {
	State   string           // state label, table.DefaultState if empty
	DryRun  bool             // build the row but do not save
	Now     func() time.Time // clock for the row date, time.Now if nil
	Logger  *logger.Logger
	Metrics *logger.Metrics
}

// Result describes a completed run
type Result struct {
	CountyKey      string        `json:"county_key"`
	SourceURL      string        `json:"source_url"`
	DataPath       string        `json:"data_path"`
	Fields         county.Fields `json:"fields"`
	Row            table.Row     `json:"row"`
	Rows           int           `json:"rows"`
	NegativeDeltas []string      `json:"negative_deltas,omitempty"`
	Saved          bool          `json:"saved"`
}

// Pipeline scrapes a county into its historical table
type Pipeline struct {
	fetcher Fetcher
	store   Store
	opts    Options
}

// New creates a Pipeline
func New(fetcher Fetcher, store Store, opts Options) *Pipeline {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = logger.DefaultMetrics()
	}
	if opts.State == "" {
		opts.State = table.DefaultState
	}
	return &Pipeline{
		fetcher: fetcher,
		store:   store,
		opts:    opts,
	}
}

// Run scrapes rec and appends one row to its table
func (p *Pipeline) Run(ctx context.Context, rec county.Record) (*Result, error) {
	p.opts.Metrics.IncrCounter("pipeline.runs")

	result, err := p.run(ctx, rec)
	if err != nil {
		p.opts.Metrics.IncrCounter("pipeline.failures")
		p.opts.Logger.Error("Scrape failed", logger.Fields{"county": rec.Key}, err)
		return nil, err
	}
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, rec county.Record) (*Result, error) {
	log := p.opts.Logger

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	log.Info("Fetching data", logger.Fields{"county": rec.Key, "url": rec.SourceURL})
	start := time.Now()
	doc, err := p.fetcher.Fetch(ctx, rec.SourceURL)
	p.opts.Metrics.Time("fetch", start)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rec.SourceURL, err)
	}

	fields, err := rec.Extractor.Extract(doc)
	if err != nil {
		if !errors.Is(err, county.ErrExtraction) {
			err = fmt.Errorf("%w: %v", county.ErrExtraction, err)
		}
		return nil, err
	}
	log.Debug("Extracted fields", logger.Fields{
		"county":       rec.Key,
		"total_cases":  fields.TotalCases,
		"total_deaths": fields.TotalDeaths,
		"time_updated": fields.TimeUpdated,
	})

	tbl, err := p.store.Load(rec.DataPath)
	if err != nil {
		return nil, fmt.Errorf("loading table: %w", err)
	}
	log.Debug("Loaded table", logger.Fields{"county": rec.Key, "rows": tbl.Len()})

	labels := table.Labels{City: rec.City, County: rec.County, State: p.opts.State}
	row, err := table.BuildRow(tbl, fields, labels, p.opts.Now())
	if err != nil {
		return nil, fmt.Errorf("building row for %s: %w", p.store.Path(rec.DataPath), err)
	}

	negative := table.NegativeDeltas(row)
	if len(negative) > 0 {
		log.Warn("Negative daily delta", logger.Fields{
			"county":           rec.Key,
			"columns":          negative,
			"new_daily_cases":  row.NewDailyCases.String(),
			"new_daily_deaths": row.NewDailyDeaths.String(),
		})
	}

	tbl.Append(row)

	result := &Result{
		CountyKey:      rec.Key,
		SourceURL:      rec.SourceURL,
		DataPath:       p.store.Path(rec.DataPath),
		Fields:         fields,
		Row:            row,
		Rows:           tbl.Len(),
		NegativeDeltas: negative,
	}

	if p.opts.DryRun {
		log.Info("Dry run, table not written", logger.Fields{"county": rec.Key, "path": result.DataPath})
		return result, nil
	}

	start = time.Now()
	err = p.store.Save(rec.DataPath, tbl)
	p.opts.Metrics.Time("save", start)
	if err != nil {
		return nil, fmt.Errorf("saving table: %w", err)
	}
	result.Saved = true

	log.Info("Added row", logger.Fields{
		"county": rec.Key,
		"path":   result.DataPath,
		"date":   row.Date,
		"rows":   result.Rows,
	})

	return result, nil
}
