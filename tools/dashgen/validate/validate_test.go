package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/donaldgifford/connect-client/tools/dashgen/rules"
)

var known = map[string]bool{
	"connect_requests_total":           true,
	"connect_request_duration_seconds": true,
	"connect:requests:rate5m":          true,
}

func TestExpr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		expr    string
		wantErr string
	}{
		{name: "counter rate", expr: `sum(rate(connect_requests_total[5m])) by (op)`},
		{name: "recording rule", expr: `connect:requests:rate5m > 1`},
		{
			name: "histogram bucket",
			expr: `histogram_quantile(0.9, sum(rate(connect_request_duration_seconds_bucket[5m])) by (le))`,
		},
		{name: "unknown metric", expr: `rate(connect_bogus_total[5m])`, wantErr: `unknown metric "connect_bogus_total"`},
		{name: "unknown suffix base", expr: `connect_bogus_bucket`, wantErr: "unknown metric"},
		{name: "syntax error", expr: `sum(rate(connect_requests_total[5m]`, wantErr: "invalid PromQL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := Expr(tt.expr, known)
			if tt.wantErr == "" {
				assert.True(t, res.Ok(), "errors: %v", res.Errors)
				return
			}
			assert.False(t, res.Ok())
			assert.Contains(t, res.Errors[0], tt.wantErr)
		})
	}
}

func TestDashboard_WalksNestedExprs(t *testing.T) {
	t.Parallel()

	dash := map[string]any{
		"panels": []any{
			map[string]any{
				"panels": []any{
					map[string]any{"targets": []any{map[string]any{"expr": "connect:requests:rate5m"}}},
					map[string]any{"targets": []any{map[string]any{"expr": "missing_metric"}}},
				},
			},
		},
	}

	res := Dashboard(dash, known)
	assert.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "missing_metric")
}

func TestDashboard_NoExprsWarns(t *testing.T) {
	t.Parallel()

	res := Dashboard(map[string]any{"title": "empty"}, known)
	assert.True(t, res.Ok())
	assert.Len(t, res.Warnings, 1)
}

func TestRules(t *testing.T) {
	t.Parallel()

	cr := rules.PrometheusRule{Spec: rules.PrometheusRuleSpec{Groups: []rules.RuleGroup{{
		Name: "g",
		Rules: []rules.Rule{
			{Record: "connect:requests:rate5m", Expr: `sum(rate(connect_requests_total[5m]))`},
			{Alert: "Broken", Expr: `rate(nope_total[5m]) > 0`},
			{Record: "x", Alert: "Y", Expr: `up`},
		},
	}}}}

	res := Rules(cr, known)
	assert.Len(t, res.Errors, 3)
	assert.Contains(t, res.Errors[0], "Broken")
	assert.Contains(t, res.Errors[1], "sets both record and alert")
	assert.Contains(t, res.Errors[2], `unknown metric "up"`)
}
