// Package validate checks generated dashboards and rules for PromQL syntax
// errors and references to metrics the client does not export.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/connect-client/tools/dashgen/rules"
)

// histogramSuffixes are accepted on any known histogram base name.
var histogramSuffixes = []string{"_bucket", "_sum", "_count"}

// Result collects validation findings. Errors fail generation, warnings
// are reported only.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether no errors were found.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) merge(o Result) {
	r.Errors = append(r.Errors, o.Errors...)
	r.Warnings = append(r.Warnings, o.Warnings...)
}

// Dashboard validates every query expression in a built dashboard. The
// dashboard is walked through its JSON form so that any panel type works.
func Dashboard(dash any, known map[string]bool) Result {
	var res Result

	data, err := json.Marshal(dash)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("marshaling dashboard: %v", err))
		return res
	}
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("decoding dashboard: %v", err))
		return res
	}

	var exprs []string
	collectExprs(tree, &exprs)
	if len(exprs) == 0 {
		res.Warnings = append(res.Warnings, "dashboard has no query expressions")
	}
	for _, e := range exprs {
		res.merge(Expr(e, known))
	}
	return res
}

// Rules validates every expression in a PrometheusRule. Record names are
// treated as known for the remaining rules.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var res Result
	for _, g := range cr.Spec.Groups {
		for _, r := range g.Rules {
			name := r.Record + r.Alert
			if r.Record != "" && r.Alert != "" {
				res.Errors = append(res.Errors, fmt.Sprintf("rule %q sets both record and alert", name))
			}
			sub := Expr(r.Expr, known)
			for _, e := range sub.Errors {
				res.Errors = append(res.Errors, name+": "+e)
			}
			res.Warnings = append(res.Warnings, sub.Warnings...)
		}
	}
	return res
}

// Expr parses a PromQL expression and checks its metric names against known.
func Expr(expr string, known map[string]bool) Result {
	var res Result

	parsed, err := parser.ParseExpr(expr)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("invalid PromQL %q: %v", expr, err))
		return res
	}

	parser.Inspect(parsed, func(node parser.Node, _ []parser.Node) error {
		vs, ok := node.(*parser.VectorSelector)
		if !ok || vs.Name == "" {
			return nil
		}
		if !isKnown(vs.Name, known) {
			res.Errors = append(res.Errors, fmt.Sprintf("unknown metric %q in %q", vs.Name, expr))
		}
		return nil
	})
	return res
}

func isKnown(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, suffix := range histogramSuffixes {
		if base, ok := strings.CutSuffix(name, suffix); ok && known[base] {
			return true
		}
	}
	return false
}

func collectExprs(node any, out *[]string) {
	switch v := node.(type) {
	case map[string]any:
		for k, child := range v {
			if s, ok := child.(string); ok && k == "expr" && s != "" {
				*out = append(*out, s)
				continue
			}
			collectExprs(child, out)
		}
	case []any:
		for _, child := range v {
			collectExprs(child, out)
		}
	}
}
