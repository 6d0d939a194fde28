package marketdata

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/evdnx/goquant/indicator/core"
)

// CSVSource serves bars from a local file with the header
// timestamp,open,high,low,close,volume. Timestamps are RFC3339, a plain date
// (2006-01-02) or unix seconds. The symbol and interval are checked but not
// used to select rows: one file holds one series.
type CSVSource struct {
	path string
}

// NewCSVSource creates a source backed by the file at path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// FetchLatest implements Source.
func (c *CSVSource) FetchLatest(ctx context.Context, symbol, _ string, count int) ([]core.Bar, error) {
	if _, err := checkLatest(symbol, count); err != nil {
		return nil, err
	}
	bars, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return finalize(bars, count)
}

// FetchRange implements Source.
func (c *CSVSource) FetchRange(ctx context.Context, symbol, _ string, start, end time.Time) ([]core.Bar, error) {
	if _, err := checkRange(symbol, start, end); err != nil {
		return nil, err
	}
	bars, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return finalize(inRange(bars, start, end), 0)
}

func (c *CSVSource) load(ctx context.Context) ([]core.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", c.path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses bars from r. A header row is optional.
func ReadCSV(r io.Reader) ([]core.Bar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 6
	cr.TrimLeadingSpace = true

	var bars []core.Bar
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "timestamp") {
			continue
		}
		b, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrParse, line, err)
		}
		bars = append(bars, b)
	}
	return bars, nil
}

func parseRecord(rec []string) (core.Bar, error) {
	ts, err := parseTimestamp(strings.TrimSpace(rec[0]))
	if err != nil {
		return core.Bar{}, err
	}
	var vals [5]float64
	for i := range vals {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
		if err != nil {
			return core.Bar{}, err
		}
		vals[i] = v
	}
	return core.Bar{
		Timestamp: ts,
		Open:      vals[0],
		High:      vals[1],
		Low:       vals[2],
		Close:     vals[3],
		Volume:    vals[4],
	}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// WriteCSV writes bars in the format ReadCSV accepts, with RFC3339 timestamps.
func WriteCSV(w io.Writer, bars []core.Bar) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"timestamp", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}
	for _, b := range bars {
		rec := []string{
			b.Timestamp.UTC().Format(time.RFC3339),
			strconv.FormatFloat(b.Open, 'f', -1, 64),
			strconv.FormatFloat(b.High, 'f', -1, 64),
			strconv.FormatFloat(b.Low, 'f', -1, 64),
			strconv.FormatFloat(b.Close, 'f', -1, 64),
			strconv.FormatFloat(b.Volume, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
