package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// TokenActivity returns a timeseries panel with token exchanges and
// shared cache hits.
func TokenActivity() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Token Activity").
		Description("OAuth token exchanges and shared token cache hits").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`connect:token_refreshes:rate5m`, "exchanges", "A")).
		WithTarget(PromQuery(`rate(`+Selector("connect_token_cache_hits_total")+`[5m])`, "cache hits", "B")).
		Unit("ops").
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// TokenFailures returns a stat panel with failed token exchanges.
func TokenFailures() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Token Failures (1h)").
		Description("Failed OAuth token exchanges in the last hour").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`increase(`+Selector("connect_token_refresh_failures_total")+`[1h])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
