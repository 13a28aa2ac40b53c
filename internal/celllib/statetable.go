package celllib

import (
	"fmt"
	"sort"
)

// Stimulus maps every declared signal of a table to its state in one row.
type Stimulus map[string]SignalState

// Response maps every internal signal of a table to its next state in one row.
type Response map[string]SignalState

// Row is one stimulus/response line of a state table.
type Row struct {
	Stimulus Stimulus
	Response Response
}

func (r Row) clone() Row {
	out := Row{
		Stimulus: make(Stimulus, len(r.Stimulus)),
		Response: make(Response, len(r.Response)),
	}
	for k, v := range r.Stimulus {
		out.Stimulus[k] = v
	}
	for k, v := range r.Response {
		out.Response[k] = v
	}
	return out
}

// StateTable is the behavior table of a sequential cell. Rows are ordered and
// the first matching row wins. A StateTable is immutable once constructed and
// safe for concurrent queries.
type StateTable struct {
	rows          []Row
	inputNames    []string
	internalNames []string
	signals       []string // inputs and internals, sorted
	declared      map[string]struct{}
	internal      map[string]struct{}
}

// NewStateTable validates rows against the declared signals and builds a table.
// When internalNames is empty the internal signals are taken from the response
// side of the first row. Every row must cover exactly the declared signals on
// its stimulus side and exactly the internal signals on its response side.
func NewStateTable(rows []Row, inputNames, internalNames []string) (*StateTable, error) {
	if len(rows) == 0 {
		return nil, &MalformedTableError{Reason: "table has no rows"}
	}

	if len(internalNames) == 0 {
		internalNames = sortedKeys(rows[0].Response)
	}

	t := &StateTable{
		rows:          make([]Row, 0, len(rows)),
		inputNames:    append([]string(nil), inputNames...),
		internalNames: append([]string(nil), internalNames...),
		declared:      make(map[string]struct{}, len(inputNames)+len(internalNames)),
		internal:      make(map[string]struct{}, len(internalNames)),
	}
	for _, name := range t.internalNames {
		if err := t.declare(name); err != nil {
			return nil, err
		}
		t.internal[name] = struct{}{}
	}
	for _, name := range t.inputNames {
		if err := t.declare(name); err != nil {
			return nil, err
		}
	}
	t.signals = sortedKeys(t.declared)

	for i, row := range rows {
		if err := sameKeys(row.Stimulus, t.declared); err != nil {
			return nil, &MalformedTableError{Reason: fmt.Sprintf("row %d stimulus: %v", i, err)}
		}
		if err := sameKeys(row.Response, t.internal); err != nil {
			return nil, &MalformedTableError{Reason: fmt.Sprintf("row %d response: %v", i, err)}
		}
		t.rows = append(t.rows, row.clone())
	}
	return t, nil
}

func (t *StateTable) declare(name string) error {
	if name == "" {
		return &MalformedTableError{Reason: "empty signal name"}
	}
	if _, dup := t.declared[name]; dup {
		return &MalformedTableError{Reason: fmt.Sprintf("signal %q declared more than once", name)}
	}
	t.declared[name] = struct{}{}
	return nil
}

// SignalMatches reports whether the stimulus entry for name accepts the
// observed value. Don't-care and both switching wildcards accept either value;
// High and Low accept their own level. Everything else, including the
// transition markers, never matches.
// TODO: edge-sensitive matching of Rising/Falling needs a stimulus
// carrying the previous sample, not a single boolean.
func SignalMatches(name string, observed bool, stimulus Stimulus) bool {
	state, ok := stimulus[name]
	return ok && state.Matches(observed)
}

// MatchRow reports whether row accepts input. Signals named in input must be
// declared by the table. Declared signals missing from input only match a
// don't-care entry.
func (t *StateTable) MatchRow(row Row, input map[string]bool) (bool, error) {
	if err := t.checkDeclared(input); err != nil {
		return false, err
	}
	return t.matches(row, input), nil
}

func (t *StateTable) checkDeclared(input map[string]bool) error {
	for name := range input {
		if _, ok := t.declared[name]; !ok {
			return &UnknownSignalError{Signal: name}
		}
	}
	return nil
}

func (t *StateTable) matches(row Row, input map[string]bool) bool {
	for name, value := range input {
		if !SignalMatches(name, value, row.Stimulus) {
			return false
		}
	}
	for _, name := range t.signals {
		if _, given := input[name]; given {
			continue
		}
		if row.Stimulus[name] != DontCare {
			return false
		}
	}
	return true
}

// MatchingRow returns the index of the first row accepting input.
func (t *StateTable) MatchingRow(input map[string]bool) (int, error) {
	if err := t.checkDeclared(input); err != nil {
		return -1, err
	}
	for i, row := range t.rows {
		if t.matches(row, input) {
			return i, nil
		}
	}
	return -1, errNoMatchingRow()
}

// SignalValue computes the next value of the internal signal under input.
func (t *StateTable) SignalValue(input map[string]bool, signal string) (bool, error) {
	if _, ok := t.internal[signal]; !ok {
		return false, &NotFoundError{What: "internal signal", Name: signal}
	}
	i, err := t.MatchingRow(input)
	if err != nil {
		return false, err
	}
	return nextValue(t.rows[i], input, signal), nil
}

// NextState computes the next value of every internal signal from the first
// row accepting input.
func (t *StateTable) NextState(input map[string]bool) (map[string]bool, error) {
	i, err := t.MatchingRow(input)
	if err != nil {
		return nil, err
	}
	next := make(map[string]bool, len(t.internalNames))
	for _, name := range t.internalNames {
		next[name] = nextValue(t.rows[i], input, name)
	}
	return next, nil
}

// nextValue applies a matched row's response. A switching wildcard on the
// stimulus side is resolved against the observed value of the same signal:
// equal wildcards pass it through, opposite wildcards invert it.
func nextValue(row Row, input map[string]bool, signal string) bool {
	stimulus := row.Stimulus[signal]
	response := row.Response[signal]
	if stimulus.IsSwitching() {
		current := input[signal]
		if stimulus == response {
			return current
		}
		return !current
	}
	return response == High
}

// Rows returns a copy of the table rows in declaration order.
func (t *StateTable) Rows() []Row {
	out := make([]Row, len(t.rows))
	for i, row := range t.rows {
		out[i] = row.clone()
	}
	return out
}

// NumRows returns the number of rows.
func (t *StateTable) NumRows() int { return len(t.rows) }

// InputNames returns the declared input signals in declaration order.
func (t *StateTable) InputNames() []string { return append([]string(nil), t.inputNames...) }

// InternalNames returns the declared internal signals in declaration order.
func (t *StateTable) InternalNames() []string { return append([]string(nil), t.internalNames...) }

// Signals returns every declared signal, sorted by name.
func (t *StateTable) Signals() []string { return append([]string(nil), t.signals...) }

// IsInternal reports whether name is an internal signal of the table.
func (t *StateTable) IsInternal(name string) bool {
	_, ok := t.internal[name]
	return ok
}

func sameKeys[V any](m map[string]V, want map[string]struct{}) error {
	for name := range m {
		if _, ok := want[name]; !ok {
			return fmt.Errorf("undeclared signal %q", name)
		}
	}
	if len(m) != len(want) {
		for _, name := range sortedKeys(want) {
			if _, ok := m[name]; !ok {
				return fmt.Errorf("missing signal %q", name)
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
