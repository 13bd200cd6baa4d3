package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
)

// RequestsStat returns a stat panel with the current request rate.
func RequestsStat() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Requests/s").
		Description("Connect API requests per second across all operations").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`connect:requests:rate5m`, "", "A")).
		Unit("reqps").
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeArea)
}

// ErrorRateStat returns a stat panel with the share of failed requests.
func ErrorRateStat() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Error %").
		Description("Library errors as percentage of requests").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`sum(connect:errors:rate5m) / connect:requests:rate5m * 100`, "", "A")).
		Unit("percent").
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone)
}

// JobsWatchedStat returns a stat panel with the number of pending feed jobs.
func JobsWatchedStat() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Feed Jobs Watched").
		Description("Export and import jobs waiting for a terminal status").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`sum(`+Selector("connect_feed_jobs_watched")+`)`, "", "A")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeNone)
}

// UptimeStat returns a stat panel showing process uptime.
func UptimeStat() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Uptime").
		Description("Time since process start").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`time() - `+Selector("process_start_time_seconds"), "", "A")).
		Unit("s").
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeNone)
}
