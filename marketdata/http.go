package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/evdnx/goquant/indicator/core"
	"github.com/evdnx/goquant/internal/logger"
)

const defaultHTTPTimeout = 30 * time.Second

// HTTPSource reads bars from a REST market-data service:
//
//	GET {base}/ohlcv/latest?symbol=S&interval=I&count=N
//	GET {base}/ohlcv?symbol=S&interval=I&start=UNIX&end=UNIX
//
// Both answer {"data":[{"timestamp":UNIX,"open":..,"high":..,"low":..,"close":..,"volume":..}]}.
type HTTPSource struct {
	client *resty.Client
	log    *slog.Logger
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithHTTPTimeout overrides the per-request timeout.
func WithHTTPTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPSource) { s.client.SetTimeout(d) }
}

// WithHTTPLogger sets the logger used for request tracing.
func WithHTTPLogger(l *slog.Logger) HTTPOption {
	return func(s *HTTPSource) { s.log = l }
}

// WithHTTPHeader adds a header to every request, e.g. an API key.
func WithHTTPHeader(key, value string) HTTPOption {
	return func(s *HTTPSource) { s.client.SetHeader(key, value) }
}

// NewHTTPSource creates a source rooted at baseURL.
func NewHTTPSource(baseURL string, opts ...HTTPOption) *HTTPSource {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(defaultHTTPTimeout)
	client.SetHeader("Accept", "application/json")

	s := &HTTPSource{client: client, log: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type ohlcvPayload struct {
	Data []ohlcvRow `json:"data"`
}

type ohlcvRow struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// FetchLatest implements Source.
func (s *HTTPSource) FetchLatest(ctx context.Context, symbol, interval string, count int) ([]core.Bar, error) {
	sym, err := checkLatest(symbol, count)
	if err != nil {
		return nil, err
	}
	bars, err := s.get(ctx, "/ohlcv/latest", map[string]string{
		"symbol":   sym,
		"interval": interval,
		"count":    strconv.Itoa(count),
	})
	if err != nil {
		return nil, err
	}
	return finalize(bars, count)
}

// FetchRange implements Source.
func (s *HTTPSource) FetchRange(ctx context.Context, symbol, interval string, start, end time.Time) ([]core.Bar, error) {
	sym, err := checkRange(symbol, start, end)
	if err != nil {
		return nil, err
	}
	bars, err := s.get(ctx, "/ohlcv", map[string]string{
		"symbol":   sym,
		"interval": interval,
		"start":    strconv.FormatInt(start.Unix(), 10),
		"end":      strconv.FormatInt(end.Unix(), 10),
	})
	if err != nil {
		return nil, err
	}
	return finalize(bars, 0)
}

func (s *HTTPSource) get(ctx context.Context, path string, params map[string]string) ([]core.Bar, error) {
	started := time.Now()
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	s.log.Debug("market data response",
		slog.String("path", path),
		slog.String("symbol", params["symbol"]),
		slog.Int("status", resp.StatusCode()),
		slog.Duration("elapsed", time.Since(started)))

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s not found", ErrInvalidSymbol, params["symbol"])
	case resp.StatusCode() != http.StatusOK:
		return nil, fmt.Errorf("%w: API error %d: %s", ErrNetwork, resp.StatusCode(), resp.String())
	}

	var payload ohlcvPayload
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if payload.Data == nil {
		return nil, fmt.Errorf("%w: missing data array", ErrParse)
	}

	bars := make([]core.Bar, len(payload.Data))
	for i, r := range payload.Data {
		bars[i] = core.Bar{
			Timestamp: time.Unix(r.Timestamp, 0).UTC(),
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    r.Volume,
		}
	}
	return bars, nil
}

func classifyTransportError(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
}
