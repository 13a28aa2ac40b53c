package schema

import "fmt"

// CellKindCode is the serialized cell-kind enumeration. Zero is the invalid/unset value.
type CellKindCode int

const (
	CellKindInvalid     CellKindCode = 0
	CellKindFlop        CellKindCode = 1
	CellKindInverter    CellKindCode = 2
	CellKindBuffer      CellKindCode = 3
	CellKindNand        CellKindCode = 4
	CellKindNor         CellKindCode = 5
	CellKindMultiplexer CellKindCode = 6
	CellKindXor         CellKindCode = 7
	CellKindOther       CellKindCode = 8
)

var cellKindCodeNames = map[CellKindCode]string{
	CellKindInvalid:     "INVALID",
	CellKindFlop:        "FLOP",
	CellKindInverter:    "INVERTER",
	CellKindBuffer:      "BUFFER",
	CellKindNand:        "NAND",
	CellKindNor:         "NOR",
	CellKindMultiplexer: "MULTIPLEXER",
	CellKindXor:         "XOR",
	CellKindOther:       "OTHER",
}

func (c CellKindCode) String() string {
	if name, ok := cellKindCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CellKindCode(%d)", int(c))
}

// SignalCode is the serialized state-table signal enumeration. Zero is the
// invalid/unset value.
type SignalCode int

const (
	SignalInvalid    SignalCode = 0
	SignalLow        SignalCode = 1
	SignalHigh       SignalCode = 2
	SignalDontCare   SignalCode = 3
	SignalHighOrLow  SignalCode = 4
	SignalLowOrHigh  SignalCode = 5
	SignalRising     SignalCode = 6
	SignalFalling    SignalCode = 7
	SignalNotRising  SignalCode = 8
	SignalNotFalling SignalCode = 9
	SignalNoChange   SignalCode = 10
	SignalX          SignalCode = 11
)

var signalCodeNames = map[SignalCode]string{
	SignalInvalid:    "STATE_TABLE_SIGNAL_INVALID",
	SignalLow:        "STATE_TABLE_SIGNAL_LOW",
	SignalHigh:       "STATE_TABLE_SIGNAL_HIGH",
	SignalDontCare:   "STATE_TABLE_SIGNAL_DONTCARE",
	SignalHighOrLow:  "STATE_TABLE_SIGNAL_HIGH_OR_LOW",
	SignalLowOrHigh:  "STATE_TABLE_SIGNAL_LOW_OR_HIGH",
	SignalRising:     "STATE_TABLE_SIGNAL_RISING",
	SignalFalling:    "STATE_TABLE_SIGNAL_FALLING",
	SignalNotRising:  "STATE_TABLE_SIGNAL_NOT_RISING",
	SignalNotFalling: "STATE_TABLE_SIGNAL_NOT_FALLING",
	SignalNoChange:   "STATE_TABLE_SIGNAL_NOCHANGE",
	SignalX:          "STATE_TABLE_SIGNAL_X",
}

func (c SignalCode) String() string {
	if name, ok := signalCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("SignalCode(%d)", int(c))
}

// CellLibraryProto is the persisted form of a whole cell library.
type CellLibraryProto struct {
	Entries []CellLibraryEntryProto `json:"entries,omitempty" yaml:"entries,omitempty"`
}

// CellLibraryEntryProto is the persisted form of a single cell.
type CellLibraryEntryProto struct {
	Kind          CellKindCode       `json:"kind" yaml:"kind"`
	Name          string             `json:"name" yaml:"name"`
	InputNames    []string           `json:"input_names,omitempty" yaml:"input_names,omitempty"`
	OutputPinList OutputPinListProto `json:"output_pin_list" yaml:"output_pin_list"`
	StateTable    *StateTableProto   `json:"state_table,omitempty" yaml:"state_table,omitempty"`
}

type OutputPinListProto struct {
	Pins []OutputPinProto `json:"pins,omitempty" yaml:"pins,omitempty"`
}

type OutputPinProto struct {
	Name     string `json:"name" yaml:"name"`
	Function string `json:"function" yaml:"function"`
}

// StateTableProto is the persisted form of a sequential cell's behavior table.
// Row order is significant.
type StateTableProto struct {
	InputNames    []string        `json:"input_names,omitempty" yaml:"input_names,omitempty"`
	InternalNames []string        `json:"internal_names,omitempty" yaml:"internal_names,omitempty"`
	Rows          []StateTableRow `json:"rows,omitempty" yaml:"rows,omitempty"`
}

type StateTableRow struct {
	InputSignals        map[string]SignalCode `json:"input_signals,omitempty" yaml:"input_signals,omitempty"`
	InternalSignals     map[string]SignalCode `json:"internal_signals,omitempty" yaml:"internal_signals,omitempty"`
	NextInternalSignals map[string]SignalCode `json:"next_internal_signals,omitempty" yaml:"next_internal_signals,omitempty"`
}
