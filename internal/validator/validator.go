package validator

// =============================================================================
// VALIDATOR PHILOSOPHY: REJECT AT THE DOOR
// =============================================================================
//
// The CUE contract sits between library files and the cell-library core.
//
// A library file that misspells a field, drops a cell name, or puts a string
// where a signal code belongs must fail here with a message naming the path,
// not deep inside state-table construction where the cause is hidden.
//
// Enumeration codes are NOT checked against the known variants here. The
// conversion layer owns that and reports the offending code.
// =============================================================================

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"

	"github.com/robert-at-pretension-io/celllib/internal/schema"
)

//go:embed cell_library.cue
var cellLibrarySchema []byte

const libraryDefinition = "#CellLibrary"

// Validator checks persisted cell libraries against the embedded CUE contract.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
	def    cue.Value
}

// New creates a Validator with the embedded schema
func New() (*Validator, error) {
	ctx := cuecontext.New()

	compiled := ctx.CompileBytes(cellLibrarySchema)
	if compiled.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", compiled.Err())
	}

	def := compiled.LookupPath(cue.ParsePath(libraryDefinition))
	if def.Err() != nil {
		return nil, fmt.Errorf("looking up %s definition: %w", libraryDefinition, def.Err())
	}

	return &Validator{
		ctx:    ctx,
		schema: compiled,
		def:    def,
	}, nil
}

// Validate checks a decoded library
func (v *Validator) Validate(lib *schema.CellLibraryProto) error {
	jsonBytes, err := schema.ToJSON(lib)
	if err != nil {
		return err
	}
	return v.ValidateJSON(jsonBytes)
}

// ContractError lists every contract violation found in one payload.
type ContractError struct {
	Problems []string
}

func (e *ContractError) Error() string {
	return "library schema validation failed: " + strings.Join(e.Problems, "; ")
}

// ValidateJSON validates raw JSON library bytes, before any Go decoding.
// A contract failure is a *ContractError naming every problem.
func (v *Validator) ValidateJSON(jsonBytes []byte) error {
	if !json.Valid(jsonBytes) {
		return fmt.Errorf("library is not valid JSON")
	}
	if problems := v.ValidationErrors(jsonBytes); len(problems) > 0 {
		return &ContractError{Problems: problems}
	}
	return nil
}

// ValidationErrors returns every contract violation as a separate message
func (v *Validator) ValidationErrors(jsonBytes []byte) []string {
	dataValue := v.ctx.CompileBytes(jsonBytes)
	if dataValue.Err() != nil {
		return []string{fmt.Sprintf("compile error: %v", dataValue.Err())}
	}

	err := v.def.Unify(dataValue).Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var errs []string
	for _, e := range errors.Errors(err) {
		errs = append(errs, e.Error())
	}
	return errs
}
