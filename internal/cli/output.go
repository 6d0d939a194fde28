package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/evdnx/goquant/dispatch"
	"github.com/evdnx/goquant/indicator"
	"github.com/evdnx/goquant/marketdata"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeResponse(w io.Writer, format string, resp *dispatch.Response) error {
	switch format {
	case "json":
		return writeJSON(w, resp)
	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"timestamp", "value"}); err != nil {
			return err
		}
		for _, p := range resp.Points {
			rec := []string{strconv.FormatInt(p.Timestamp, 10), strconv.FormatFloat(p.Value, 'f', -1, 64)}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	case "plot":
		values := make([]float64, len(resp.Points))
		stamps := make([]time.Time, len(resp.Points))
		for i, p := range resp.Points {
			values[i] = p.Value
			stamps[i] = time.Unix(p.Timestamp, 0).UTC()
		}
		plot := indicator.NewPlotData(resp.Indicator, "line", values, stamps)
		out, err := indicator.FormatPlotDataJSON([]indicator.PlotData{plot})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, out)
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeSummary(w io.Writer, format string, resp *dispatch.SummaryResponse) error {
	switch format {
	case "json":
		return writeJSON(w, resp)
	case "table":
		fmt.Fprintf(w, "%s %s: %s (bullish %.1f, bearish %.1f)\n",
			resp.Symbol, resp.Interval, resp.Signal, resp.Bullish, resp.Bearish)
		names := make([]string, 0, len(resp.Latest)+len(resp.Failed))
		for name := range resp.Latest {
			names = append(names, name)
		}
		for name := range resp.Failed {
			names = append(names, name)
		}
		sort.Strings(names)

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, name := range names {
			if code, failed := resp.Failed[name]; failed {
				fmt.Fprintf(tw, "%s\t%s\n", name, code)
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\n", name, strconv.FormatFloat(resp.Latest[name], 'f', -1, 64))
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeBars(w io.Writer, format string, resp *dispatch.FetchResponse) error {
	switch format {
	case "json":
		return writeJSON(w, resp)
	case "csv":
		bars := make([]indicator.Bar, len(resp.Bars))
		for i, b := range resp.Bars {
			bars[i] = indicator.Bar{
				Timestamp: time.Unix(b.Timestamp, 0).UTC(),
				Open:      b.Open,
				High:      b.High,
				Low:       b.Low,
				Close:     b.Close,
				Volume:    b.Volume,
			}
		}
		return marketdata.WriteCSV(w, bars)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
