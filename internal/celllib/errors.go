package celllib

import "fmt"

// InvalidEnumError reports a serialized enumeration code, or a name when
// parsing text, with no matching variant.
type InvalidEnumError struct {
	Enum string
	Code int
	Name string
}

func (e *InvalidEnumError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("invalid value for conversion to %s: %q", e.Enum, e.Name)
	}
	return fmt.Sprintf("invalid value for conversion to %s: %d", e.Enum, e.Code)
}

// MalformedTableError reports a state table whose rows disagree with its
// declared signals, or a table without rows.
type MalformedTableError struct {
	Reason string
}

func (e *MalformedTableError) Error() string {
	return "malformed state table: " + e.Reason
}

// UnknownSignalError reports a stimulus naming a signal the table does not declare.
type UnknownSignalError struct {
	Signal string
}

func (e *UnknownSignalError) Error() string {
	return fmt.Sprintf("signal %q is not declared in the state table", e.Signal)
}

// DuplicateNameError reports a name collision. Kind is "cell" for registry
// insertion and "output pin" for repeated pins within one entry.
type DuplicateNameError struct {
	Kind string
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate %s name: %s", e.Kind, e.Name)
}

// NotFoundError reports a failed lookup: an unknown cell, an undeclared
// internal signal, or a stimulus no row matches.
type NotFoundError struct {
	What string
	Name string
}

func (e *NotFoundError) Error() string {
	if e.Name == "" {
		return e.What + " not found"
	}
	return fmt.Sprintf("%s not found: %s", e.What, e.Name)
}

func errNoMatchingRow() error {
	return &NotFoundError{What: "matching row"}
}
