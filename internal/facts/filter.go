package facts

// FilterTablesByCells returns a new Tables object containing only rows that
// belong to one of the given cells.
func FilterTablesByCells(tables Tables, cells map[string]bool) Tables {
	out := emptyTables()
	if len(cells) == 0 {
		return out
	}

	for _, row := range tables.Cells {
		if cells[row.Name] {
			out.Cells = append(out.Cells, row)
		}
	}
	out.InputPins = keep(tables.InputPins, cells, func(r InputPinRow) string { return r.Cell })
	out.OutputPins = keep(tables.OutputPins, cells, func(r OutputPinRow) string { return r.Cell })
	out.StateSignals = keep(tables.StateSignals, cells, func(r StateSignalRow) string { return r.Cell })
	out.StateRows = keep(tables.StateRows, cells, func(r StateRowRow) string { return r.Cell })
	out.RowFindings = keep(tables.RowFindings, cells, func(r RowFindingRow) string { return r.Cell })

	return out
}

// FilterDeltaByCells returns a new Delta containing only rows for the specified cells.
func FilterDeltaByCells(delta Delta, cells map[string]bool) Delta {
	return Delta{
		Added:   FilterTablesByCells(delta.Added, cells),
		Removed: FilterTablesByCells(delta.Removed, cells),
	}
}

// ChangedCells lists every cell touched by delta, in order of first appearance.
func ChangedCells(delta Delta) []string {
	seen := map[string]bool{}
	var cells []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			cells = append(cells, name)
		}
	}
	for _, t := range []Tables{delta.Added, delta.Removed} {
		for _, r := range t.Cells {
			add(r.Name)
		}
		for _, r := range t.InputPins {
			add(r.Cell)
		}
		for _, r := range t.OutputPins {
			add(r.Cell)
		}
		for _, r := range t.StateSignals {
			add(r.Cell)
		}
		for _, r := range t.StateRows {
			add(r.Cell)
		}
		for _, r := range t.RowFindings {
			add(r.Cell)
		}
	}
	return cells
}

func keep[T any](rows []T, cells map[string]bool, cell func(T) string) []T {
	out := []T{}
	for _, row := range rows {
		if cells[cell(row)] {
			out = append(out, row)
		}
	}
	return out
}
