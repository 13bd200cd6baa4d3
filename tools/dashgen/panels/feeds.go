package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// SettledJobs returns a timeseries panel with settled feed jobs by status.
func SettledJobs() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Settled Feed Jobs").
		Description("Export and import jobs reaching a terminal status, per hour").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(increase(`+Selector("connect_feed_jobs_settled_total")+`[1h])) by (status)`,
			"{{status}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("sum")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleBars)
}

// PollRate returns a timeseries panel with feed job status lookups.
func PollRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Poll Rate").
		Description("Feed job status lookups per second").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`connect:feed_job_polls:rate5m`, "polls/s", "A")).
		Unit("ops").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// Callbacks returns a timeseries panel with delivered and failed job
// callbacks.
func Callbacks() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Callbacks").
		Description("Job event webhooks delivered and failed").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`rate(`+Selector("connect_callbacks_sent_total")+`[5m])`, "sent", "A")).
		WithTarget(PromQuery(`rate(`+Selector("connect_callback_failures_total")+`[5m])`, "failed", "B")).
		Unit("ops").
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
