package dispatch

// CalculateRequest asks for one registered indicator on fetched bars.
// Zero Interval and Count take the dispatcher defaults.
type CalculateRequest struct {
	Indicator string `json:"indicator"`
	Symbol    string `json:"symbol"`
	Interval  string `json:"interval,omitempty"`
	Count     int    `json:"count,omitempty"`
}

// FetchRequest asks for raw bars.
type FetchRequest struct {
	Symbol   string `json:"symbol"`
	Interval string `json:"interval,omitempty"`
	Count    int    `json:"count,omitempty"`
}

// Point is one indicator value keyed by unix seconds.
type Point struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// Response is the successful reply to a CalculateRequest.
type Response struct {
	RequestID string  `json:"request_id"`
	Indicator string  `json:"indicator"`
	Symbol    string  `json:"symbol"`
	Interval  string  `json:"interval"`
	Points    []Point `json:"values"`
}

// BarOut is one OHLCV bar in a FetchResponse.
type BarOut struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// FetchResponse is the successful reply to a FetchRequest.
type FetchResponse struct {
	RequestID string   `json:"request_id"`
	Symbol    string   `json:"symbol"`
	Interval  string   `json:"interval"`
	Bars      []BarOut `json:"data"`
}

// IndicatorInfo describes one registered indicator.
type IndicatorInfo struct {
	Name          string `json:"name"`
	DisplayName   string `json:"display_name"`
	Type          string `json:"type"`
	MinDataPoints int    `json:"min_data_points"`
}

// SummaryResponse is the reply to Summarize: the latest value of every
// registered indicator plus the combined oscillator signal.
type SummaryResponse struct {
	RequestID    string             `json:"request_id"`
	Symbol       string             `json:"symbol"`
	Interval     string             `json:"interval"`
	Signal       string             `json:"signal"`
	Bullish      float64            `json:"bullish"`
	Bearish      float64            `json:"bearish"`
	Contributors []string           `json:"contributors"`
	Latest       map[string]float64 `json:"latest"`
	Failed       map[string]string  `json:"failed,omitempty"` // name -> error code
}
