// Package suite builds the process-wide indicator registry from the
// configured registration table and runs the registered indicators.
package suite

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/evdnx/goquant/config"
	"github.com/evdnx/goquant/indicator"
	"github.com/evdnx/goquant/internal/logger"
)

// ---------------------------------------------------------------------
// IndicatorSuite – read-only registry of named indicator instances.
// ---------------------------------------------------------------------

type IndicatorSuite struct {
	entries map[string]entry
	names   []string // sorted
	workers int
	log     *slog.Logger
}

type entry struct {
	spec config.IndicatorSpec
	ind  indicator.Indicator
}

// Info describes one registered indicator.
type Info struct {
	Name          string `json:"name"`
	DisplayName   string `json:"display_name"`
	Type          string `json:"type"`
	MinDataPoints int    `json:"min_data_points"`
}

// Outcome is the result of running one registered indicator.
type Outcome struct {
	Name    string
	Result  indicator.Result
	Err     error
	Elapsed time.Duration // zero when the indicator never ran
}

// Option configures an IndicatorSuite.
type Option func(*IndicatorSuite)

// WithLogger sets the logger used for registration and batch runs.
func WithLogger(l *slog.Logger) Option {
	return func(s *IndicatorSuite) { s.log = l }
}

// WithWorkers bounds how many indicators CalculateAll runs at once.
func WithWorkers(n int) Option {
	return func(s *IndicatorSuite) {
		if n > 0 {
			s.workers = n
		}
	}
}

const defaultWorkers = 8

// NewIndicatorSuite creates a suite with the default registration table.
func NewIndicatorSuite(opts ...Option) (*IndicatorSuite, error) {
	return NewIndicatorSuiteWithConfig(config.DefaultConfig(), opts...)
}

// NewIndicatorSuiteWithConfig validates cfg and constructs every indicator it
// lists. Any constructor failure aborts the whole build.
func NewIndicatorSuiteWithConfig(cfg config.IndicatorConfig, opts ...Option) (*IndicatorSuite, error) {
	s := &IndicatorSuite{
		entries: make(map[string]entry, len(cfg.Indicators)),
		workers: defaultWorkers,
		log:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	for _, spec := range cfg.Indicators {
		ind, err := indicator.New(spec)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", spec.Name, err)
		}
		s.entries[spec.Name] = entry{spec: spec, ind: ind}
		s.names = append(s.names, spec.Name)
	}
	sort.Strings(s.names)

	s.log.Debug("indicator suite ready", slog.Int("indicators", len(s.names)))
	return s, nil
}

// Get resolves a logical name to its configured instance.
func (s *IndicatorSuite) Get(name string) (indicator.Indicator, bool) {
	e, ok := s.entries[name]
	return e.ind, ok
}

// Spec returns the registration entry for name.
func (s *IndicatorSuite) Spec(name string) (config.IndicatorSpec, bool) {
	e, ok := s.entries[name]
	return e.spec, ok
}

// Names returns the registered names in sorted order.
func (s *IndicatorSuite) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of registered indicators.
func (s *IndicatorSuite) Len() int { return len(s.names) }

// List describes every registered indicator, sorted by name.
func (s *IndicatorSuite) List() []Info {
	out := make([]Info, 0, len(s.names))
	for _, name := range s.names {
		e := s.entries[name]
		out = append(out, Info{
			Name:          name,
			DisplayName:   e.ind.Name(),
			Type:          e.spec.Type,
			MinDataPoints: e.ind.MinDataPoints(),
		})
	}
	return out
}

// CalculateAll runs every registered indicator on bars and returns one
// Outcome per name. Indicators share bars read-only; bars must not be
// modified until CalculateAll returns. Indicators not yet started when ctx is
// done report ctx.Err().
func (s *IndicatorSuite) CalculateAll(ctx context.Context, bars []indicator.Bar) map[string]Outcome {
	out := make(map[string]Outcome, len(s.names))
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, s.workers)
	)

	for _, name := range s.names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()

			var o Outcome
			select {
			case sem <- struct{}{}: // Acquire
				o = s.calculate(name, bars)
				<-sem // Release
			case <-ctx.Done():
				o = Outcome{Name: name, Err: ctx.Err()}
			}

			mu.Lock()
			out[name] = o
			mu.Unlock()
		}(name)
	}
	wg.Wait()

	failed := 0
	for _, o := range out {
		if o.Err != nil {
			failed++
		}
	}
	s.log.Debug("batch calculation finished",
		slog.Int("indicators", len(out)),
		slog.Int("failed", failed),
		slog.Int("bars", len(bars)))
	return out
}

func (s *IndicatorSuite) calculate(name string, bars []indicator.Bar) Outcome {
	start := time.Now()
	res, err := s.entries[name].ind.Calculate(bars)
	return Outcome{Name: name, Result: res, Err: err, Elapsed: time.Since(start)}
}
