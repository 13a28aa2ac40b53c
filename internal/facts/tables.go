package facts

import (
	"sort"

	"github.com/robert-at-pretension-io/celllib/internal/analysis"
	"github.com/robert-at-pretension-io/celllib/internal/celllib"
)

// Tables is the relational fact model of a cell library.
// Each slice is a relation (table) with flat rows.
type Tables struct {
	Cells        []CellRow        `json:"cells"`
	InputPins    []InputPinRow    `json:"input_pins"`
	OutputPins   []OutputPinRow   `json:"output_pins"`
	StateSignals []StateSignalRow `json:"state_signals"`
	StateRows    []StateRowRow    `json:"state_rows"`
	RowFindings  []RowFindingRow  `json:"row_findings"`
}

type CellRow struct {
	Name         string `json:"name"`
	Kind         string `json:"kind"`
	IsSequential bool   `json:"is_sequential"`
	NumRows      int    `json:"num_rows"`
}

type InputPinRow struct {
	Cell     string `json:"cell"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

type OutputPinRow struct {
	Cell     string `json:"cell"`
	Name     string `json:"name"`
	Function string `json:"function"`
}

// StateSignalRow is one signal declared by a cell's state table.
type StateSignalRow struct {
	Cell       string `json:"cell"`
	Name       string `json:"name"`
	IsInternal bool   `json:"is_internal"`
}

// StateRowRow is one (row, signal) cell of a state table. Response is empty
// for signals that only appear on the stimulus side.
type StateRowRow struct {
	Cell     string `json:"cell"`
	Row      int    `json:"row"`
	Signal   string `json:"signal"`
	Stimulus string `json:"stimulus"`
	Response string `json:"response"`
}

// RowFindingRow is a result of state-table row analysis.
// Kind is "unreachable" or "conflict"; Other and Signal are only set for conflicts.
type RowFindingRow struct {
	Cell   string `json:"cell"`
	Kind   string `json:"kind"`
	Row    int    `json:"row"`
	Other  int    `json:"other"`
	Signal string `json:"signal"`
}

const (
	FindingUnreachable = "unreachable"
	FindingConflict    = "conflict"
)

// BuildTables flattens lib into relational rows. Cells keep library order.
func BuildTables(lib *celllib.CellLibrary) Tables {
	tables := emptyTables()
	if lib == nil {
		return tables
	}

	for _, entry := range lib.Entries() {
		cell := entry.Name()
		table := entry.StateTable()

		row := CellRow{
			Name:         cell,
			Kind:         entry.Kind().String(),
			IsSequential: entry.IsSequential(),
		}
		if table != nil {
			row.NumRows = table.NumRows()
		}
		tables.Cells = append(tables.Cells, row)

		for i, name := range entry.InputNames() {
			tables.InputPins = append(tables.InputPins, InputPinRow{Cell: cell, Name: name, Position: i})
		}

		functions := entry.OutputPinToFunction()
		for _, pin := range entry.OutputPins() {
			tables.OutputPins = append(tables.OutputPins, OutputPinRow{
				Cell:     cell,
				Name:     pin,
				Function: functions[pin],
			})
		}

		if table == nil {
			continue
		}
		for _, name := range table.Signals() {
			tables.StateSignals = append(tables.StateSignals, StateSignalRow{
				Cell:       cell,
				Name:       name,
				IsInternal: table.IsInternal(name),
			})
		}
		for i, r := range table.Rows() {
			for _, name := range sortedSignals(r.Stimulus) {
				out := StateRowRow{
					Cell:     cell,
					Row:      i,
					Signal:   name,
					Stimulus: r.Stimulus[name].String(),
				}
				if resp, ok := r.Response[name]; ok {
					out.Response = resp.String()
				}
				tables.StateRows = append(tables.StateRows, out)
			}
		}

		report := analysis.Analyze(table)
		for _, i := range report.Unreachable {
			tables.RowFindings = append(tables.RowFindings, RowFindingRow{
				Cell: cell,
				Kind: FindingUnreachable,
				Row:  i,
			})
		}
		for _, c := range report.Conflicts {
			tables.RowFindings = append(tables.RowFindings, RowFindingRow{
				Cell:   cell,
				Kind:   FindingConflict,
				Row:    c.First,
				Other:  c.Second,
				Signal: c.Signal,
			})
		}
	}

	return tables
}

func sortedSignals(stimulus celllib.Stimulus) []string {
	names := make([]string, 0, len(stimulus))
	for name := range stimulus {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
