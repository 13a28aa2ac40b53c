package policy

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/open-policy-agent/opa/v1/rego"

	"github.com/robert-at-pretension-io/celllib/internal/facts"
)

//go:embed celllib.rego
var builtinPolicy string

const violationsQuery = "data.celllib.lint.violations"

// Severity levels. SeverityOff drops a rule entirely.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
	SeverityOff     = "off"
)

// Engine evaluates OPA policies against cell library facts
type Engine struct {
	query    rego.PreparedEvalQuery
	severity func(rule, def string) string
}

// Violation represents a policy violation. Row is -1 for cell-level findings.
type Violation struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Cell     string `json:"cell"`
	Row      int    `json:"row"`
	Message  string `json:"message"`
}

// Result contains the evaluation results
type Result struct {
	Violations []Violation `json:"violations"`
	Summary    Summary     `json:"summary"`
}

// Summary provides aggregate counts
type Summary struct {
	TotalViolations int `json:"total_violations"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Info            int `json:"info"`
}

// HasErrors reports whether any violation is error severity.
func (r *Result) HasErrors() bool {
	return r.Summary.Errors > 0
}

// Option configures an Engine.
type Option func(*Engine)

// WithRuleSeverity installs a resolver mapping (rule, default severity) to the
// effective severity. config.Config.RuleSeverity fits.
func WithRuleSeverity(resolve func(rule, def string) string) Option {
	return func(e *Engine) {
		e.severity = resolve
	}
}

// New creates a policy engine from the built-in rules plus every .rego file in
// policyDir. Extra modules contribute to the same violations set by declaring
// package celllib.lint. An empty policyDir loads only the built-in rules.
func New(ctx context.Context, policyDir string, opts ...Option) (*Engine, error) {
	modules := []func(*rego.Rego){rego.Module("celllib.rego", builtinPolicy)}

	if policyDir != "" {
		files, err := filepath.Glob(filepath.Join(policyDir, "*.rego"))
		if err != nil {
			return nil, fmt.Errorf("finding policy files: %w", err)
		}
		for _, f := range files {
			content, err := os.ReadFile(f)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", f, err)
			}
			modules = append(modules, rego.Module(f, string(content)))
		}
	}

	query, err := rego.New(append(modules, rego.Query(violationsQuery))...).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("preparing violations query: %w", err)
	}

	engine := &Engine{query: query}
	for _, opt := range opts {
		opt(engine)
	}
	return engine, nil
}

// Evaluate runs the policies against the fact tables
func (e *Engine) Evaluate(ctx context.Context, tables facts.Tables) (*Result, error) {
	inputMap, err := structToMap(tables)
	if err != nil {
		return nil, fmt.Errorf("converting input: %w", err)
	}

	rs, err := e.query.Eval(ctx, rego.EvalInput(inputMap))
	if err != nil {
		return nil, fmt.Errorf("evaluating violations: %w", err)
	}

	result := &Result{Violations: []Violation{}}
	if len(rs) > 0 && len(rs[0].Expressions) > 0 {
		violations, _ := rs[0].Expressions[0].Value.([]interface{})
		for _, v := range violations {
			vmap, ok := v.(map[string]interface{})
			if !ok {
				continue
			}
			violation := Violation{
				Rule:     getString(vmap, "rule"),
				Severity: getString(vmap, "severity"),
				Cell:     getString(vmap, "cell"),
				Row:      getInt(vmap, "row"),
				Message:  getString(vmap, "message"),
			}
			if e.severity != nil {
				violation.Severity = e.severity(violation.Rule, violation.Severity)
			}
			if violation.Severity == SeverityOff {
				continue
			}
			result.Violations = append(result.Violations, violation)
		}
	}

	sort.SliceStable(result.Violations, func(i, j int) bool {
		a, b := result.Violations[i], result.Violations[j]
		if a.Cell != b.Cell {
			return a.Cell < b.Cell
		}
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		return a.Message < b.Message
	})
	result.Summary = summarize(result.Violations)
	return result, nil
}

func summarize(violations []Violation) Summary {
	s := Summary{TotalViolations: len(violations)}
	for _, v := range violations {
		switch v.Severity {
		case SeverityError:
			s.Errors++
		case SeverityWarning:
			s.Warnings++
		case SeverityInfo:
			s.Info++
		}
	}
	return s
}

// Helper functions
func structToMap(v interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var result map[string]interface{}
	err = json.Unmarshal(data, &result)
	return result, err
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getInt(m map[string]interface{}, key string) int {
	if v, ok := m[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		case json.Number:
			i, _ := n.Int64()
			return int(i)
		}
	}
	return 0
}
