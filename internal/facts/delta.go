package facts

import "strconv"

// Delta captures added and removed fact rows between two snapshots.
type Delta struct {
	Added   Tables `json:"added"`
	Removed Tables `json:"removed"`
}

// Empty reports whether the two snapshots were identical.
func (d Delta) Empty() bool {
	return d.Added.Len() == 0 && d.Removed.Len() == 0
}

// Len is the total number of rows across all relations.
func (t Tables) Len() int {
	return len(t.Cells) + len(t.InputPins) + len(t.OutputPins) +
		len(t.StateSignals) + len(t.StateRows) + len(t.RowFindings)
}

// ComputeDelta computes row-level additions and removals between two snapshots.
func ComputeDelta(prev, next Tables) Delta {
	return Delta{
		Added:   diffTables(prev, next),
		Removed: diffTables(next, prev),
	}
}

func diffTables(from, to Tables) Tables {
	out := emptyTables()

	out.Cells = diffRows(from.Cells, to.Cells, func(r CellRow) string {
		return r.Name + "|" + r.Kind + "|" + boolKey(r.IsSequential) + "|" + strconv.Itoa(r.NumRows)
	})
	out.InputPins = diffRows(from.InputPins, to.InputPins, func(r InputPinRow) string {
		return r.Cell + "|" + r.Name + "|" + strconv.Itoa(r.Position)
	})
	out.OutputPins = diffRows(from.OutputPins, to.OutputPins, func(r OutputPinRow) string {
		return r.Cell + "|" + r.Name + "|" + r.Function
	})
	out.StateSignals = diffRows(from.StateSignals, to.StateSignals, func(r StateSignalRow) string {
		return r.Cell + "|" + r.Name + "|" + boolKey(r.IsInternal)
	})
	out.StateRows = diffRows(from.StateRows, to.StateRows, func(r StateRowRow) string {
		return r.Cell + "|" + strconv.Itoa(r.Row) + "|" + r.Signal + "|" + r.Stimulus + "|" + r.Response
	})
	out.RowFindings = diffRows(from.RowFindings, to.RowFindings, func(r RowFindingRow) string {
		return r.Cell + "|" + r.Kind + "|" + strconv.Itoa(r.Row) + "|" + strconv.Itoa(r.Other) + "|" + r.Signal
	})

	return out
}

func emptyTables() Tables {
	return Tables{
		Cells:        []CellRow{},
		InputPins:    []InputPinRow{},
		OutputPins:   []OutputPinRow{},
		StateSignals: []StateSignalRow{},
		StateRows:    []StateRowRow{},
		RowFindings:  []RowFindingRow{},
	}
}

func diffRows[T any](from, to []T, key func(T) string) []T {
	fromSet := make(map[string]struct{}, len(from))
	for _, row := range from {
		fromSet[key(row)] = struct{}{}
	}
	diff := []T{}
	for _, row := range to {
		if _, ok := fromSet[key(row)]; !ok {
			diff = append(diff, row)
		}
	}
	return diff
}

func boolKey(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
