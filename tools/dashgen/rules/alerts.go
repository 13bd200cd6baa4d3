package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// Connect client processes.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "connect-alerts",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "connect-alerts",
					Rules: []Rule{
						{
							Alert: "ConnectHighErrorRate",
							Expr:  `sum(connect:errors:rate5m) / connect:requests:rate5m > 0.05`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "High error rate against the Connect API",
								"description": "More than 5% of Connect API calls have failed over the last 5 minutes.",
							},
						},
						{
							Alert: "ConnectTokenRefreshFailures",
							Expr:  `increase(connect_token_refresh_failures_total[10m]) > 2`,
							For:   "0m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "OAuth token exchange is failing",
								"description": "The client could not obtain a bearer token. Check the client credentials and token endpoint.",
							},
						},
						{
							Alert: "ConnectQuotaExhausted",
							Expr:  `increase(connect_rate_limit_hits_total[5m]) > 0`,
							For:   "0m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Client-side request quota has been reached",
								"description": "Requests are being refused until the quota window resets.",
							},
						},
						{
							Alert: "ConnectCallbackFailures",
							Expr:  `increase(connect_callback_failures_total[5m]) > 0`,
							For:   "1m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Feed job callback delivery failures detected",
								"description": "One or more job event webhooks have failed to send.",
							},
						},
						{
							Alert: "ConnectFeedJobsFailing",
							Expr:  `sum(increase(connect_feed_jobs_settled_total{status!="done"}[1h])) > 0`,
							For:   "0m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Feed jobs are ending without completing",
								"description": "Exports or imports settled as failed, canceled, or missing within the last hour.",
							},
						},
					},
				},
			},
		},
	}
}
