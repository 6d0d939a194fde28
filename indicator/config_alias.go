package indicator

import "github.com/evdnx/goquant/config"

// Re-export config types so callers building indicators only import this package.
type (
	IndicatorConfig = config.IndicatorConfig
	IndicatorSpec   = config.IndicatorSpec
)

func DefaultConfig() IndicatorConfig {
	return config.DefaultConfig()
}
