// Package analysis checks state tables for rows that can never be selected and
// for overlapping rows that disagree on the next state.
//
// Every table signal becomes two SAT inputs: whether the caller supplied it and
// its value. A row's match condition is the conjunction of its stimulus
// entries, so questions like "can row 3 fire when rows 0..2 do not" are
// satisfiability queries over a small circuit. Omitted signals only satisfy a
// don't-care entry, the same rule StateTable.MatchRow applies.
package analysis

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/robert-at-pretension-io/celllib/internal/celllib"
)

// Conflict describes two rows that accept a common input yet compute a
// different next value for Signal. First always shadows Second.
type Conflict struct {
	First  int    `json:"first"`
	Second int    `json:"second"`
	Signal string `json:"signal"`
}

// Report is the result of analysing one state table.
type Report struct {
	Unreachable []int      `json:"unreachable,omitempty"`
	Conflicts   []Conflict `json:"conflicts,omitempty"`
}

// Clean reports whether the analysis found nothing.
func (r Report) Clean() bool {
	return len(r.Unreachable) == 0 && len(r.Conflicts) == 0
}

// circuit maps a state table onto a gini circuit.
type circuit struct {
	c     *logic.C
	lits  map[string]z.Lit // value of each signal
	given map[string]z.Lit // whether the input names the signal
	conds []z.Lit
	next  []map[string]z.Lit
}

func newCircuit(table *celllib.StateTable) *circuit {
	signals := table.Signals()
	d := &circuit{
		c:     logic.NewCCap(len(signals) * 8),
		lits:  make(map[string]z.Lit, len(signals)),
		given: make(map[string]z.Lit, len(signals)),
	}
	for _, name := range signals {
		d.lits[name] = d.c.Lit()
		d.given[name] = d.c.Lit()
	}

	for _, row := range table.Rows() {
		ms := make([]z.Lit, 0, len(signals))
		for _, name := range signals {
			ms = append(ms, d.stimulusLit(name, row.Stimulus[name]))
		}
		d.conds = append(d.conds, d.c.Ands(ms...))

		next := make(map[string]z.Lit, len(row.Response))
		for _, name := range table.InternalNames() {
			next[name] = d.responseLit(name, row)
		}
		d.next = append(d.next, next)
	}
	return d
}

// stimulusLit encodes "this entry accepts name": a supplied value the entry
// admits, or an omitted signal against a don't-care entry.
func (d *circuit) stimulusLit(name string, state celllib.SignalState) z.Lit {
	switch state {
	case celllib.High:
		return d.c.And(d.given[name], d.lits[name])
	case celllib.Low:
		return d.c.And(d.given[name], d.lits[name].Not())
	case celllib.DontCare:
		return d.c.T
	case celllib.HighOrLow, celllib.LowOrHigh:
		return d.given[name]
	default:
		return d.c.F
	}
}

// responseLit encodes the next value of an internal signal once row matched.
// A switching stimulus only matches a supplied signal, so its value is defined.
func (d *circuit) responseLit(name string, row celllib.Row) z.Lit {
	stimulus := row.Stimulus[name]
	response := row.Response[name]
	if stimulus.IsSwitching() {
		if stimulus == response {
			return d.lits[name]
		}
		return d.lits[name].Not()
	}
	if response == celllib.High {
		return d.c.T
	}
	return d.c.F
}

// sat reports whether m is satisfiable over the circuit.
func (d *circuit) sat(m z.Lit) bool {
	switch m {
	case d.c.T:
		return true
	case d.c.F:
		return false
	}
	g := gini.New()
	d.c.ToCnf(g)
	g.Add(d.c.T)
	g.Add(z.LitNull)
	g.Assume(m)
	return g.Solve() == 1
}

// Analyze reports unreachable rows and conflicting row pairs of table.
// Transition markers never match, so rows using them are always unreachable.
func Analyze(table *celllib.StateTable) Report {
	var report Report
	if table == nil {
		return report
	}
	d := newCircuit(table)

	for i, cond := range d.conds {
		ms := []z.Lit{cond}
		for _, earlier := range d.conds[:i] {
			ms = append(ms, earlier.Not())
		}
		if !d.sat(d.c.Ands(ms...)) {
			report.Unreachable = append(report.Unreachable, i)
		}
	}

	internal := table.InternalNames()
	for i := range d.conds {
		for j := i + 1; j < len(d.conds); j++ {
			overlap := d.c.And(d.conds[i], d.conds[j])
			if !d.sat(overlap) {
				continue
			}
			for _, name := range internal {
				differ := d.c.Xor(d.next[i][name], d.next[j][name])
				if d.sat(d.c.And(overlap, differ)) {
					report.Conflicts = append(report.Conflicts, Conflict{First: i, Second: j, Signal: name})
				}
			}
		}
	}
	return report
}
