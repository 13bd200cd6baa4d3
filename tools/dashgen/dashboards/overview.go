// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/connect-client/tools/dashgen/panels"
)

// BuildOverview constructs the Connect Client dashboard covering requests,
// authentication, rate limiting, and feed jobs.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Connect Client").
		Uid("connect-client").
		Tags([]string{"connect", "connectctl"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.RequestsStat()).
		WithPanel(panels.ErrorRateStat()).
		WithPanel(panels.JobsWatchedStat()).
		WithPanel(panels.UptimeStat()))

	b.WithRow(dashboard.NewRowBuilder("Requests").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorsByKind()).
		WithPanel(panels.StatusCodes()))

	b.WithRow(dashboard.NewRowBuilder("Authentication").
		WithPanel(panels.TokenActivity()).
		WithPanel(panels.TokenFailures()))

	b.WithRow(dashboard.NewRowBuilder("Rate Limit").
		WithPanel(panels.WindowUsage()).
		WithPanel(panels.QuotaHits()))

	b.WithRow(dashboard.NewRowBuilder("Feed Jobs").
		WithPanel(panels.SettledJobs()).
		WithPanel(panels.PollRate()).
		WithPanel(panels.Callbacks()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
