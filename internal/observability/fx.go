package observability

import (
	"github.com/smallbiznis/medipos/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		metrics.NewHTTPMetrics,
	),
)
