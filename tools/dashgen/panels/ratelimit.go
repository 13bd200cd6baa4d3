package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// WindowUsage returns a timeseries panel with requests counted against the
// client-side quota window.
func WindowUsage() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Quota Window Usage").
		Description("Requests counted in the current rate limiter window").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(Selector("connect_rate_limit_window_usage"), "{{instance}}", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// QuotaHits returns a stat panel with requests refused by the quota.
func QuotaHits() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Quota Hits (24h)").
		Description("Requests refused because the quota window was used up").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`increase(`+Selector("connect_rate_limit_hits_total")+`[24h])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 10)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
