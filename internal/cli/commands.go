package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/evdnx/goquant/dispatch"
	"github.com/evdnx/goquant/marketdata"
	"github.com/evdnx/goquant/suite"
)

// Market data sources selectable with --source.
const (
	sourceHTTP  = "http"
	sourceYahoo = "yahoo"
	sourceCSV   = "csv"
)

// requestFlags are shared by the commands that fetch bars.
type requestFlags struct {
	symbol   string
	interval string
	count    int
	source   string
	csvPath  string
	format   string
}

func (f *requestFlags) register(cmd *cobra.Command, formats string) {
	cmd.Flags().StringVar(&f.symbol, "symbol", "", "Ticker symbol")
	cmd.Flags().StringVar(&f.interval, "interval", "", "Bar interval such as 1h or 1d (config default if empty)")
	cmd.Flags().IntVar(&f.count, "count", 0, "Number of bars to fetch (config default if 0)")
	cmd.Flags().StringVar(&f.source, "source", sourceHTTP, "Market data source: http, yahoo or csv")
	cmd.Flags().StringVar(&f.csvPath, "csv", "", "CSV file for --source csv")
	cmd.Flags().StringVar(&f.format, "format", "json", "Output format: "+formats)
	_ = cmd.MarkFlagRequired("symbol")
}

// newListCmd creates the list command
func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered indicators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.suite()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tINDICATOR\tTYPE\tMIN BARS")
			for _, info := range s.List() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", info.Name, info.DisplayName, info.Type, info.MinDataPoints)
			}
			return tw.Flush()
		},
	}
}

// newCalcCmd creates the calc command
func newCalcCmd(a *app) *cobra.Command {
	var f requestFlags
	cmd := &cobra.Command{
		Use:   "calc INDICATOR",
		Short: "Calculate one registered indicator",
		Long: `Fetch bars for a symbol and calculate one registered indicator on them.
Example: goquant calc rsi_14 --symbol AAPL --interval 1d --count 100`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dispatcher(&f)
			if err != nil {
				return err
			}
			resp, err := d.Calculate(cmd.Context(), dispatch.CalculateRequest{
				Indicator: args[0],
				Symbol:    f.symbol,
				Interval:  f.interval,
				Count:     f.count,
			})
			if err != nil {
				return err
			}
			return writeResponse(cmd.OutOrStdout(), f.format, resp)
		},
	}
	f.register(cmd, "json, csv or plot")
	return cmd
}

// newSummaryCmd creates the summary command
func newSummaryCmd(a *app) *cobra.Command {
	var f requestFlags
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Calculate every registered indicator and the combined signal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dispatcher(&f)
			if err != nil {
				return err
			}
			resp, err := d.Summarize(cmd.Context(), dispatch.FetchRequest{
				Symbol:   f.symbol,
				Interval: f.interval,
				Count:    f.count,
			})
			if err != nil {
				return err
			}
			return writeSummary(cmd.OutOrStdout(), f.format, resp)
		},
	}
	f.register(cmd, "json or table")
	return cmd
}

// newFetchCmd creates the fetch command
func newFetchCmd(a *app) *cobra.Command {
	var f requestFlags
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch raw OHLCV bars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dispatcher(&f)
			if err != nil {
				return err
			}
			resp, err := d.Fetch(cmd.Context(), dispatch.FetchRequest{
				Symbol:   f.symbol,
				Interval: f.interval,
				Count:    f.count,
			})
			if err != nil {
				return err
			}
			return writeBars(cmd.OutOrStdout(), f.format, resp)
		},
	}
	f.register(cmd, "json or csv")
	return cmd
}

func (a *app) suite() (*suite.IndicatorSuite, error) {
	return suite.NewIndicatorSuiteWithConfig(a.cfg, suite.WithLogger(a.log))
}

func (a *app) dispatcher(f *requestFlags) (*dispatch.Dispatcher, error) {
	s, err := a.suite()
	if err != nil {
		return nil, err
	}
	src, err := a.source(f)
	if err != nil {
		return nil, err
	}
	return dispatch.New(s, src, dispatch.WithLogger(a.log), dispatch.WithConfig(a.cfg)), nil
}

func (a *app) source(f *requestFlags) (marketdata.Source, error) {
	switch strings.ToLower(f.source) {
	case sourceHTTP:
		return marketdata.NewHTTPSource(a.cfg.MarketDataAPI, marketdata.WithHTTPLogger(a.log)), nil
	case sourceYahoo:
		return marketdata.NewYahooSource(), nil
	case sourceCSV:
		if f.csvPath == "" {
			return nil, fmt.Errorf("--csv is required with --source %s", sourceCSV)
		}
		return marketdata.NewCSVSource(f.csvPath), nil
	default:
		return nil, fmt.Errorf("unknown source %q (want http, yahoo or csv)", f.source)
	}
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
