package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "connect-recording-rules",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "connect-recording",
					Rules: []Rule{
						{
							Record: "connect:requests:rate5m",
							Expr:   `sum(rate(connect_requests_total[5m]))`,
						},
						{
							Record: "connect:requests_by_op:rate5m",
							Expr:   `sum(rate(connect_requests_total[5m])) by (op)`,
						},
						{
							Record: "connect:errors:rate5m",
							Expr:   `sum(rate(connect_errors_total[5m])) by (kind)`,
						},
						{
							Record: "connect:token_refreshes:rate5m",
							Expr:   `sum(rate(connect_token_refreshes_total[5m]))`,
						},
						{
							Record: "connect:feed_job_polls:rate5m",
							Expr:   `sum(rate(connect_feed_job_polls_total[5m]))`,
						},
					},
				},
			},
		},
	}
}
