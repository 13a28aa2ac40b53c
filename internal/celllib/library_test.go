package celllib

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robert-at-pretension-io/celllib/internal/schema"
)

func dffProto() schema.CellLibraryEntryProto {
	return schema.CellLibraryEntryProto{
		Kind:       schema.CellKindFlop,
		Name:       "DFF_X1",
		InputNames: []string{"D", "CK"},
		OutputPinList: schema.OutputPinListProto{Pins: []schema.OutputPinProto{
			{Name: "QN", Function: "IQN"},
			{Name: "Q", Function: "IQ"},
		}},
		StateTable: &schema.StateTableProto{
			InputNames:    []string{"D", "CK"},
			InternalNames: []string{"IQ", "IQN"},
			Rows: []schema.StateTableRow{
				{
					InputSignals:        map[string]schema.SignalCode{"D": schema.SignalHigh, "CK": schema.SignalHigh},
					InternalSignals:     map[string]schema.SignalCode{"IQ": schema.SignalDontCare, "IQN": schema.SignalDontCare},
					NextInternalSignals: map[string]schema.SignalCode{"IQ": schema.SignalHigh, "IQN": schema.SignalLow},
				},
				{
					InputSignals:        map[string]schema.SignalCode{"D": schema.SignalLow, "CK": schema.SignalHigh},
					InternalSignals:     map[string]schema.SignalCode{"IQ": schema.SignalDontCare, "IQN": schema.SignalDontCare},
					NextInternalSignals: map[string]schema.SignalCode{"IQ": schema.SignalLow, "IQN": schema.SignalHigh},
				},
				{
					InputSignals:        map[string]schema.SignalCode{"D": schema.SignalDontCare, "CK": schema.SignalLow},
					InternalSignals:     map[string]schema.SignalCode{"IQ": schema.SignalHighOrLow, "IQN": schema.SignalLowOrHigh},
					NextInternalSignals: map[string]schema.SignalCode{"IQ": schema.SignalHighOrLow, "IQN": schema.SignalLowOrHigh},
				},
				{
					InputSignals:        map[string]schema.SignalCode{"D": schema.SignalX, "CK": schema.SignalRising},
					InternalSignals:     map[string]schema.SignalCode{"IQ": schema.SignalNoChange, "IQN": schema.SignalNotFalling},
					NextInternalSignals: map[string]schema.SignalCode{"IQ": schema.SignalX, "IQN": schema.SignalInvalid},
				},
			},
		},
	}
}

func nandProto() schema.CellLibraryEntryProto {
	return schema.CellLibraryEntryProto{
		Kind:       schema.CellKindNand,
		Name:       "NAND2_X1",
		InputNames: []string{"A2", "A1"},
		OutputPinList: schema.OutputPinListProto{Pins: []schema.OutputPinProto{
			{Name: "ZN", Function: "!(A1 & A2)"},
		}},
	}
}

func TestEntryRoundTrip(t *testing.T) {
	for _, proto := range []schema.CellLibraryEntryProto{dffProto(), nandProto()} {
		t.Run(proto.Name, func(t *testing.T) {
			entry, err := EntryFromProto(&proto)
			require.NoError(t, err)

			back, err := entry.ToProto()
			require.NoError(t, err)
			again, err := EntryFromProto(back)
			require.NoError(t, err)

			require.Equal(t, entry, again)
			require.Equal(t, entry.Kind(), again.Kind())
			require.Equal(t, entry.InputNames(), again.InputNames())
			require.Equal(t, entry.OutputPinToFunction(), again.OutputPinToFunction())
			if entry.IsSequential() {
				require.Equal(t, entry.StateTable().Rows(), again.StateTable().Rows())
			}
		})
	}
}

func TestEntryFromProtoKeepsPinOrderAndFunctions(t *testing.T) {
	proto := nandProto()
	entry, err := EntryFromProto(&proto)
	require.NoError(t, err)

	require.Equal(t, Nand, entry.Kind())
	require.Equal(t, []string{"A2", "A1"}, entry.InputNames())
	require.False(t, entry.IsSequential())
	require.Nil(t, entry.StateTable())

	fn, err := entry.Function("ZN")
	require.NoError(t, err)
	require.Equal(t, "!(A1 & A2)", fn)

	_, err = entry.Function("Z")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestEntryFromProtoConvertsStateTable(t *testing.T) {
	proto := dffProto()
	entry, err := EntryFromProto(&proto)
	require.NoError(t, err)
	require.True(t, entry.IsSequential())

	table := entry.StateTable()
	require.Equal(t, 4, table.NumRows())
	require.Equal(t, []string{"IQ", "IQN"}, table.InternalNames())
	require.Equal(t, Stimulus{"D": Unknown, "CK": Rising, "IQ": NoChange, "IQN": NotFalling}, table.Rows()[3].Stimulus)

	next, err := table.NextState(map[string]bool{"D": true, "CK": false, "IQ": true, "IQN": false})
	require.NoError(t, err)
	require.Equal(t, map[string]bool{"IQ": true, "IQN": false}, next)
}

func TestEntryFromProtoRejectsUnknownEnums(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*schema.CellLibraryEntryProto)
		enum   string
		code   int
	}{
		{
			name:   "invalid kind",
			mutate: func(p *schema.CellLibraryEntryProto) { p.Kind = schema.CellKindInvalid },
			enum:   "CellKind",
			code:   0,
		},
		{
			name:   "out of range kind",
			mutate: func(p *schema.CellLibraryEntryProto) { p.Kind = 99 },
			enum:   "CellKind",
			code:   99,
		},
		{
			name: "out of range signal",
			mutate: func(p *schema.CellLibraryEntryProto) {
				p.StateTable.Rows[1].NextInternalSignals["IQ"] = 42
			},
			enum: "SignalState",
			code: 42,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proto := dffProto()
			tt.mutate(&proto)
			entry, err := EntryFromProto(&proto)
			require.Nil(t, entry)
			var invalid *InvalidEnumError
			require.ErrorAs(t, err, &invalid)
			require.Equal(t, tt.enum, invalid.Enum)
			require.Equal(t, tt.code, invalid.Code)
		})
	}
}

func TestEntryFromProtoRejectsDuplicateOutputPin(t *testing.T) {
	proto := nandProto()
	proto.OutputPinList.Pins = append(proto.OutputPinList.Pins, schema.OutputPinProto{Name: "ZN", Function: "A1"})
	_, err := EntryFromProto(&proto)
	var dup *DuplicateNameError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "output pin", dup.Kind)
}

func TestEntryFromProtoRejectsOverlappingSignalMaps(t *testing.T) {
	proto := dffProto()
	proto.StateTable.Rows[0].InputSignals["IQ"] = schema.SignalHigh
	_, err := EntryFromProto(&proto)
	var malformed *MalformedTableError
	require.ErrorAs(t, err, &malformed)
}

func TestEntryFromProtoRejectsEmptyStateTable(t *testing.T) {
	proto := dffProto()
	proto.StateTable.Rows = nil
	_, err := EntryFromProto(&proto)
	var malformed *MalformedTableError
	require.ErrorAs(t, err, &malformed)
}

func TestStateTableFromProtoDerivesNames(t *testing.T) {
	proto := dffProto().StateTable
	proto.InputNames = nil
	proto.InternalNames = nil
	table, err := StateTableFromProto(proto)
	require.NoError(t, err)
	require.Equal(t, []string{"CK", "D"}, table.InputNames())
	require.Equal(t, []string{"IQ", "IQN"}, table.InternalNames())

	proto = &schema.StateTableProto{
		InternalNames: []string{"IQ"},
		Rows: []schema.StateTableRow{{
			InputSignals:        map[string]schema.SignalCode{"D": schema.SignalHigh},
			InternalSignals:     map[string]schema.SignalCode{"IQ": schema.SignalDontCare},
			NextInternalSignals: map[string]schema.SignalCode{"IQ": schema.SignalHigh},
		}},
	}
	table, err = StateTableFromProto(proto)
	require.NoError(t, err)
	require.Equal(t, []string{"D"}, table.InputNames())
	require.Equal(t, []string{"IQ"}, table.InternalNames())
}

func TestAddEntryRejectsDuplicateName(t *testing.T) {
	lib := NewCellLibrary()
	original, err := NewCellLibraryEntry(Flop, "DFF_X1", []string{"D", "CK"}, map[string]string{"Q": "IQ"}, nil)
	require.NoError(t, err)
	require.NoError(t, lib.AddEntry(original))

	replacement, err := NewCellLibraryEntry(Buffer, "DFF_X1", []string{"A"}, map[string]string{"Z": "A"}, nil)
	require.NoError(t, err)
	err = lib.AddEntry(replacement)
	var dup *DuplicateNameError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "DFF_X1", dup.Name)

	got, err := lib.Entry("DFF_X1")
	require.NoError(t, err)
	require.Same(t, original, got)
	require.Equal(t, Flop, got.Kind())
	require.Equal(t, 1, lib.Len())
}

func TestEntryNotFound(t *testing.T) {
	lib := NewCellLibrary()
	_, err := lib.Entry("AND2_X1")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "cell", notFound.What)
	require.EqualError(t, err, "cell not found: AND2_X1")
}

func TestLibraryFromProtoRoundTripKeepsOrder(t *testing.T) {
	proto := &schema.CellLibraryProto{Entries: []schema.CellLibraryEntryProto{nandProto(), dffProto()}}
	lib, err := LibraryFromProto(proto)
	require.NoError(t, err)
	require.Equal(t, []string{"NAND2_X1", "DFF_X1"}, lib.Names())

	back, err := lib.ToProto()
	require.NoError(t, err)
	again, err := LibraryFromProto(back)
	require.NoError(t, err)
	require.Equal(t, lib, again)
}

func TestLibraryFromProtoAbortsOnFirstFailure(t *testing.T) {
	bad := nandProto()
	bad.Kind = 77
	tests := []struct {
		name    string
		entries []schema.CellLibraryEntryProto
	}{
		{name: "duplicate", entries: []schema.CellLibraryEntryProto{nandProto(), dffProto(), nandProto()}},
		{name: "bad kind", entries: []schema.CellLibraryEntryProto{dffProto(), bad}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib, err := LibraryFromProto(&schema.CellLibraryProto{Entries: tt.entries})
			require.Error(t, err)
			require.Nil(t, lib)
		})
	}
}

func TestNewCellLibraryEntryValidates(t *testing.T) {
	_, err := NewCellLibraryEntry(Flop, "", nil, nil, nil)
	require.Error(t, err)

	_, err = NewCellLibraryEntry(CellKind(0), "X", nil, nil, nil)
	var invalid *InvalidEnumError
	require.ErrorAs(t, err, &invalid)

	require.Error(t, NewCellLibrary().AddEntry(nil))
}

func TestParseCellKind(t *testing.T) {
	for _, kind := range []CellKind{Flop, Inverter, Buffer, Nand, Nor, Xor, Multiplexer, Other} {
		got, err := ParseCellKind(kind.String())
		require.NoError(t, err)
		require.Equal(t, kind, got)
	}
	_, err := ParseCellKind("latch")
	var invalid *InvalidEnumError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "CellKind", invalid.Enum)
	require.Equal(t, "latch", invalid.Name)
	require.EqualError(t, err, `invalid value for conversion to CellKind: "latch"`)
	require.Equal(t, "<invalid CellKind(0)>", CellKind(0).String())
}

func TestUndeclaredStateInputs(t *testing.T) {
	proto := dffProto()
	proto.InputNames = []string{"D"}
	entry, err := EntryFromProto(&proto)
	require.NoError(t, err)
	require.Equal(t, []string{"CK"}, entry.UndeclaredStateInputs())
}
