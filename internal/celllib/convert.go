package celllib

import (
	"fmt"

	"github.com/robert-at-pretension-io/celllib/internal/schema"
)

// StateTableFromProto converts a persisted behavior table. Input and internal
// signal states of a row form its stimulus. Omitted input names come from the
// first row's input signals and omitted internal names from its response, each
// independently of the other list.
func StateTableFromProto(proto *schema.StateTableProto) (*StateTable, error) {
	rows := make([]Row, 0, len(proto.Rows))
	for i, rowProto := range proto.Rows {
		row := Row{
			Stimulus: make(Stimulus, len(rowProto.InputSignals)+len(rowProto.InternalSignals)),
			Response: make(Response, len(rowProto.NextInternalSignals)),
		}
		for name, code := range rowProto.InputSignals {
			state, err := signalStateFromCode(code)
			if err != nil {
				return nil, err
			}
			row.Stimulus[name] = state
		}
		for name, code := range rowProto.InternalSignals {
			if _, dup := row.Stimulus[name]; dup {
				return nil, &MalformedTableError{Reason: fmt.Sprintf("row %d lists %q as both input and internal signal", i, name)}
			}
			state, err := signalStateFromCode(code)
			if err != nil {
				return nil, err
			}
			row.Stimulus[name] = state
		}
		for name, code := range rowProto.NextInternalSignals {
			state, err := signalStateFromCode(code)
			if err != nil {
				return nil, err
			}
			row.Response[name] = state
		}
		rows = append(rows, row)
	}

	inputNames := proto.InputNames
	if len(inputNames) == 0 && len(proto.Rows) > 0 {
		inputNames = sortedKeys(proto.Rows[0].InputSignals)
	}
	return NewStateTable(rows, inputNames, proto.InternalNames)
}

// ToProto is the inverse of StateTableFromProto.
func (t *StateTable) ToProto() (*schema.StateTableProto, error) {
	proto := &schema.StateTableProto{
		InputNames:    t.InputNames(),
		InternalNames: t.InternalNames(),
		Rows:          make([]schema.StateTableRow, 0, len(t.rows)),
	}
	for _, row := range t.rows {
		rowProto := schema.StateTableRow{
			InputSignals:        make(map[string]schema.SignalCode, len(t.inputNames)),
			InternalSignals:     make(map[string]schema.SignalCode, len(t.internalNames)),
			NextInternalSignals: make(map[string]schema.SignalCode, len(row.Response)),
		}
		for name, state := range row.Stimulus {
			code, err := state.code()
			if err != nil {
				return nil, err
			}
			if t.IsInternal(name) {
				rowProto.InternalSignals[name] = code
			} else {
				rowProto.InputSignals[name] = code
			}
		}
		for name, state := range row.Response {
			code, err := state.code()
			if err != nil {
				return nil, err
			}
			rowProto.NextInternalSignals[name] = code
		}
		proto.Rows = append(proto.Rows, rowProto)
	}
	return proto, nil
}

// EntryFromProto converts a persisted cell. Nothing is returned on error.
func EntryFromProto(proto *schema.CellLibraryEntryProto) (*CellLibraryEntry, error) {
	kind, err := cellKindFromCode(proto.Kind)
	if err != nil {
		return nil, fmt.Errorf("cell %q: %w", proto.Name, err)
	}

	pins := make(map[string]string, len(proto.OutputPinList.Pins))
	for _, pin := range proto.OutputPinList.Pins {
		if _, dup := pins[pin.Name]; dup {
			return nil, fmt.Errorf("cell %q: %w", proto.Name, &DuplicateNameError{Kind: "output pin", Name: pin.Name})
		}
		pins[pin.Name] = pin.Function
	}

	var table *StateTable
	if proto.StateTable != nil {
		table, err = StateTableFromProto(proto.StateTable)
		if err != nil {
			return nil, fmt.Errorf("cell %q: %w", proto.Name, err)
		}
	}

	return NewCellLibraryEntry(kind, proto.Name, proto.InputNames, pins, table)
}

// ToProto is the inverse of EntryFromProto. Output pins are written sorted by name.
func (e *CellLibraryEntry) ToProto() (*schema.CellLibraryEntryProto, error) {
	kind, err := e.kind.code()
	if err != nil {
		return nil, err
	}
	proto := &schema.CellLibraryEntryProto{
		Kind:       kind,
		Name:       e.name,
		InputNames: e.InputNames(),
	}
	for _, pin := range e.OutputPins() {
		proto.OutputPinList.Pins = append(proto.OutputPinList.Pins, schema.OutputPinProto{
			Name:     pin,
			Function: e.outputPinToFunction[pin],
		})
	}
	if e.stateTable != nil {
		proto.StateTable, err = e.stateTable.ToProto()
		if err != nil {
			return nil, fmt.Errorf("cell %q: %w", e.name, err)
		}
	}
	return proto, nil
}

// LibraryFromProto builds a library from persisted entries in order. The first
// conversion or insertion failure aborts the whole load.
func LibraryFromProto(proto *schema.CellLibraryProto) (*CellLibrary, error) {
	lib := NewCellLibrary()
	if err := lib.AddProto(proto); err != nil {
		return nil, err
	}
	return lib, nil
}

// AddProto converts and adds every entry of proto. It stops at the first
// failure; callers treat the library as unusable after an error.
func (l *CellLibrary) AddProto(proto *schema.CellLibraryProto) error {
	for i := range proto.Entries {
		entry, err := EntryFromProto(&proto.Entries[i])
		if err != nil {
			return err
		}
		if err := l.AddEntry(entry); err != nil {
			return err
		}
	}
	return nil
}

// ToProto writes the entries in insertion order.
func (l *CellLibrary) ToProto() (*schema.CellLibraryProto, error) {
	proto := &schema.CellLibraryProto{}
	for _, entry := range l.Entries() {
		entryProto, err := entry.ToProto()
		if err != nil {
			return nil, err
		}
		proto.Entries = append(proto.Entries, *entryProto)
	}
	return proto, nil
}
