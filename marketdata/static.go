package marketdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/evdnx/goquant/indicator/core"
)

// StaticSource serves bars held in memory, keyed by symbol. It is safe for
// concurrent use.
type StaticSource struct {
	mu   sync.RWMutex
	bars map[string][]core.Bar
}

// NewStaticSource creates an empty in-memory source.
func NewStaticSource() *StaticSource {
	return &StaticSource{bars: make(map[string][]core.Bar)}
}

// Set stores a copy of bars for symbol, replacing any previous series.
func (s *StaticSource) Set(symbol string, bars []core.Bar) error {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.bars[sym] = core.CopySlice(bars)
	s.mu.Unlock()
	return nil
}

func (s *StaticSource) get(symbol string) ([]core.Bar, error) {
	s.mu.RLock()
	bars, ok := s.bars[symbol]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s not loaded", ErrInvalidSymbol, symbol)
	}
	return core.CopySlice(bars), nil
}

// FetchLatest implements Source.
func (s *StaticSource) FetchLatest(ctx context.Context, symbol, _ string, count int) ([]core.Bar, error) {
	sym, err := checkLatest(symbol, count)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bars, err := s.get(sym)
	if err != nil {
		return nil, err
	}
	return finalize(bars, count)
}

// FetchRange implements Source.
func (s *StaticSource) FetchRange(ctx context.Context, symbol, _ string, start, end time.Time) ([]core.Bar, error) {
	sym, err := checkRange(symbol, start, end)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bars, err := s.get(sym)
	if err != nil {
		return nil, err
	}
	return finalize(inRange(bars, start, end), 0)
}
