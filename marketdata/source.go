// Package marketdata retrieves OHLCV bars for the indicator engine.
//
// Every Source returns bars sorted by ascending timestamp that pass
// core.ValidateBars; anything else is reported as ErrParse.
package marketdata

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/evdnx/goquant/indicator/core"
)

var (
	ErrInvalidSymbol    = errors.New("invalid symbol")
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrInvalidCount     = errors.New("count must be positive")
	ErrNetwork          = errors.New("network error")
	ErrTimeout          = errors.New("request timed out")
	ErrParse            = errors.New("malformed market data")
	ErrNoData           = errors.New("no market data")
)

// Source fetches bars for a symbol and interval.
type Source interface {
	// FetchLatest returns up to count of the most recent bars.
	FetchLatest(ctx context.Context, symbol, interval string, count int) ([]core.Bar, error)
	// FetchRange returns the bars with start <= timestamp <= end.
	FetchRange(ctx context.Context, symbol, interval string, start, end time.Time) ([]core.Bar, error)
}

var symbolPattern = regexp.MustCompile(`^\^?[A-Z0-9][A-Z0-9.\-=/_]{0,19}$`)

// NormalizeSymbol upper-cases and trims a ticker and checks its shape.
func NormalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if !symbolPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}
	return s, nil
}

func checkLatest(symbol string, count int) (string, error) {
	s, err := NormalizeSymbol(symbol)
	if err != nil {
		return "", err
	}
	if count <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	return s, nil
}

func checkRange(symbol string, start, end time.Time) (string, error) {
	s, err := NormalizeSymbol(symbol)
	if err != nil {
		return "", err
	}
	if end.Before(start) {
		return "", fmt.Errorf("%w: end %s before start %s", ErrInvalidTimeRange,
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return s, nil
}

// finalize sorts bars by time, validates them and keeps the last count
// (count <= 0 keeps everything).
func finalize(bars []core.Bar, count int) ([]core.Bar, error) {
	if len(bars) == 0 {
		return nil, ErrNoData
	}
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Timestamp.Before(bars[j].Timestamp)
	})
	if err := core.ValidateBars(bars); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if count > 0 {
		bars = core.KeepLast(bars, count)
	}
	return bars, nil
}

func inRange(bars []core.Bar, start, end time.Time) []core.Bar {
	out := bars[:0:0]
	for _, b := range bars {
		if !b.Timestamp.Before(start) && !b.Timestamp.After(end) {
			out = append(out, b)
		}
	}
	return out
}

// IntervalDuration maps an interval such as "5m", "1h", "1d", "1wk" or "1mo"
// to its approximate length.
func IntervalDuration(interval string) (time.Duration, error) {
	iv := strings.ToLower(strings.TrimSpace(interval))
	units := []struct {
		suffix string
		d      time.Duration
	}{
		{"mo", 30 * 24 * time.Hour},
		{"wk", 7 * 24 * time.Hour},
		{"m", time.Minute},
		{"h", time.Hour},
		{"d", 24 * time.Hour},
	}
	for _, u := range units {
		if !strings.HasSuffix(iv, u.suffix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(iv, u.suffix))
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("unsupported interval %q", interval)
		}
		return time.Duration(n) * u.d, nil
	}
	return 0, fmt.Errorf("unsupported interval %q", interval)
}
