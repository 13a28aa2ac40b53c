package celllib

import (
	"fmt"

	"github.com/robert-at-pretension-io/celllib/internal/schema"
)

// SignalState is the symbolic value a signal takes in a state-table row.
type SignalState int

const (
	Invalid SignalState = iota
	Low
	High
	DontCare
	// HighOrLow and LowOrHigh match either boolean on the stimulus side. On
	// the response side, the same wildcard means "keep the input value" and
	// the opposite one means "invert it".
	HighOrLow
	LowOrHigh
	// Transition markers are carried through conversion but never match a
	// boolean observation.
	Rising
	Falling
	NotRising
	NotFalling
	NoChange
	Unknown
)

var signalStateNames = [...]string{
	Invalid:    "invalid",
	Low:        "L",
	High:       "H",
	DontCare:   "-",
	HighOrLow:  "H/L",
	LowOrHigh:  "L/H",
	Rising:     "R",
	Falling:    "F",
	NotRising:  "~R",
	NotFalling: "~F",
	NoChange:   "N",
	Unknown:    "X",
}

// String returns the Liberty-style token for the state
func (s SignalState) String() string {
	if s >= 0 && int(s) < len(signalStateNames) {
		return signalStateNames[s]
	}
	return fmt.Sprintf("SignalState(%d)", int(s))
}

// IsSwitching reports whether s is one of the paired wildcards
func (s SignalState) IsSwitching() bool {
	return s == HighOrLow || s == LowOrHigh
}

// Matches reports whether a row holding s accepts the observed boolean.
// Only don't-care, the paired wildcards and an equal fixed level match.
func (s SignalState) Matches(observed bool) bool {
	switch s {
	case DontCare, HighOrLow, LowOrHigh:
		return true
	case High:
		return observed
	case Low:
		return !observed
	}
	return false
}

func signalStateFromCode(code schema.SignalCode) (SignalState, error) {
	switch code {
	case schema.SignalInvalid:
		return Invalid, nil
	case schema.SignalLow:
		return Low, nil
	case schema.SignalHigh:
		return High, nil
	case schema.SignalDontCare:
		return DontCare, nil
	case schema.SignalHighOrLow:
		return HighOrLow, nil
	case schema.SignalLowOrHigh:
		return LowOrHigh, nil
	case schema.SignalRising:
		return Rising, nil
	case schema.SignalFalling:
		return Falling, nil
	case schema.SignalNotRising:
		return NotRising, nil
	case schema.SignalNotFalling:
		return NotFalling, nil
	case schema.SignalNoChange:
		return NoChange, nil
	case schema.SignalX:
		return Unknown, nil
	}
	return Invalid, &InvalidEnumError{Enum: "SignalState", Code: int(code)}
}

func (s SignalState) code() (schema.SignalCode, error) {
	switch s {
	case Invalid:
		return schema.SignalInvalid, nil
	case Low:
		return schema.SignalLow, nil
	case High:
		return schema.SignalHigh, nil
	case DontCare:
		return schema.SignalDontCare, nil
	case HighOrLow:
		return schema.SignalHighOrLow, nil
	case LowOrHigh:
		return schema.SignalLowOrHigh, nil
	case Rising:
		return schema.SignalRising, nil
	case Falling:
		return schema.SignalFalling, nil
	case NotRising:
		return schema.SignalNotRising, nil
	case NotFalling:
		return schema.SignalNotFalling, nil
	case NoChange:
		return schema.SignalNoChange, nil
	case Unknown:
		return schema.SignalX, nil
	}
	return schema.SignalInvalid, &InvalidEnumError{Enum: "SignalState", Code: int(s)}
}

// CellKind is the category of a library cell.
type CellKind int

const (
	Flop CellKind = iota + 1
	Inverter
	Buffer
	Nand
	Nor
	Xor
	Multiplexer
	Other
)

var cellKindNames = map[CellKind]string{
	Flop:        "flop",
	Inverter:    "inverter",
	Buffer:      "buffer",
	Nand:        "nand",
	Nor:         "nor",
	Xor:         "xor",
	Multiplexer: "multiplexer",
	Other:       "other",
}

func (k CellKind) String() string {
	if name, ok := cellKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("<invalid CellKind(%d)>", int(k))
}

var cellKindsByName = func() map[string]CellKind {
	m := make(map[string]CellKind, len(cellKindNames))
	for kind, name := range cellKindNames {
		m[name] = kind
	}
	return m
}()

// ParseCellKind is the inverse of CellKind.String
func ParseCellKind(s string) (CellKind, error) {
	if kind, ok := cellKindsByName[s]; ok {
		return kind, nil
	}
	return 0, &InvalidEnumError{Enum: "CellKind", Name: s}
}

func cellKindFromCode(code schema.CellKindCode) (CellKind, error) {
	switch code {
	case schema.CellKindFlop:
		return Flop, nil
	case schema.CellKindInverter:
		return Inverter, nil
	case schema.CellKindBuffer:
		return Buffer, nil
	case schema.CellKindNand:
		return Nand, nil
	case schema.CellKindNor:
		return Nor, nil
	case schema.CellKindMultiplexer:
		return Multiplexer, nil
	case schema.CellKindXor:
		return Xor, nil
	case schema.CellKindOther:
		return Other, nil
	}
	return 0, &InvalidEnumError{Enum: "CellKind", Code: int(code)}
}

func (k CellKind) code() (schema.CellKindCode, error) {
	switch k {
	case Flop:
		return schema.CellKindFlop, nil
	case Inverter:
		return schema.CellKindInverter, nil
	case Buffer:
		return schema.CellKindBuffer, nil
	case Nand:
		return schema.CellKindNand, nil
	case Nor:
		return schema.CellKindNor, nil
	case Multiplexer:
		return schema.CellKindMultiplexer, nil
	case Xor:
		return schema.CellKindXor, nil
	case Other:
		return schema.CellKindOther, nil
	}
	return schema.CellKindInvalid, &InvalidEnumError{Enum: "CellKind", Code: int(k)}
}
