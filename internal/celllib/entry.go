package celllib

import (
	"errors"
	"sort"
)

// CellLibraryEntry describes one technology cell: its kind, its ordered input
// pins, the function of each output pin, and for sequential cells a state table.
type CellLibraryEntry struct {
	kind                CellKind
	name                string
	inputNames          []string
	outputPinToFunction map[string]string
	stateTable          *StateTable
}

// NewCellLibraryEntry builds an entry. stateTable is nil for combinational cells.
func NewCellLibraryEntry(kind CellKind, name string, inputNames []string, outputPinToFunction map[string]string, stateTable *StateTable) (*CellLibraryEntry, error) {
	if name == "" {
		return nil, errors.New("cell library entry has an empty name")
	}
	if _, ok := cellKindNames[kind]; !ok {
		return nil, &InvalidEnumError{Enum: "CellKind", Code: int(kind)}
	}
	pins := make(map[string]string, len(outputPinToFunction))
	for pin, fn := range outputPinToFunction {
		pins[pin] = fn
	}
	return &CellLibraryEntry{
		kind:                kind,
		name:                name,
		inputNames:          append([]string(nil), inputNames...),
		outputPinToFunction: pins,
		stateTable:          stateTable,
	}, nil
}

// Kind returns the cell category.
func (e *CellLibraryEntry) Kind() CellKind { return e.kind }

// Name returns the unique cell name.
func (e *CellLibraryEntry) Name() string { return e.name }

// InputNames returns the input pins in positional order.
func (e *CellLibraryEntry) InputNames() []string {
	return append([]string(nil), e.inputNames...)
}

// OutputPinToFunction returns a copy of the output pin to function-expression map.
func (e *CellLibraryEntry) OutputPinToFunction() map[string]string {
	out := make(map[string]string, len(e.outputPinToFunction))
	for pin, fn := range e.outputPinToFunction {
		out[pin] = fn
	}
	return out
}

// OutputPins returns the output pin names, sorted.
func (e *CellLibraryEntry) OutputPins() []string {
	return sortedKeys(e.outputPinToFunction)
}

// Function returns the expression driving an output pin.
func (e *CellLibraryEntry) Function(pin string) (string, error) {
	fn, ok := e.outputPinToFunction[pin]
	if !ok {
		return "", &NotFoundError{What: "output pin", Name: pin}
	}
	return fn, nil
}

// StateTable returns the behavior table, or nil for a combinational cell.
func (e *CellLibraryEntry) StateTable() *StateTable { return e.stateTable }

// IsSequential reports whether the cell carries a state table.
func (e *CellLibraryEntry) IsSequential() bool { return e.stateTable != nil }

func (e *CellLibraryEntry) hasInput(name string) bool {
	for _, in := range e.inputNames {
		if in == name {
			return true
		}
	}
	return false
}

// UndeclaredStateInputs returns the state-table input signals that are not
// input pins of the cell, sorted.
func (e *CellLibraryEntry) UndeclaredStateInputs() []string {
	if e.stateTable == nil {
		return nil
	}
	var out []string
	for _, name := range e.stateTable.inputNames {
		if !e.hasInput(name) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
