package schema

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func dffLibrary() *CellLibraryProto {
	return &CellLibraryProto{
		Entries: []CellLibraryEntryProto{
			{
				Kind:       CellKindInverter,
				Name:       "INV_X1",
				InputNames: []string{"A"},
				OutputPinList: OutputPinListProto{
					Pins: []OutputPinProto{{Name: "ZN", Function: "!A"}},
				},
			},
			{
				Kind:       CellKindFlop,
				Name:       "DFF_X1",
				InputNames: []string{"D", "CK"},
				OutputPinList: OutputPinListProto{
					Pins: []OutputPinProto{{Name: "Q", Function: "IQ"}},
				},
				StateTable: &StateTableProto{
					InputNames:    []string{"D", "CK"},
					InternalNames: []string{"IQ"},
					Rows: []StateTableRow{{
						InputSignals:        map[string]SignalCode{"D": SignalHigh, "CK": SignalRising},
						InternalSignals:     map[string]SignalCode{"IQ": SignalDontCare},
						NextInternalSignals: map[string]SignalCode{"IQ": SignalHigh},
					}},
				},
			},
		},
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "lib.json", want: FormatJSON},
		{path: "dir/lib.YAML", want: FormatYAML},
		{path: "lib.yml", want: FormatYAML},
		{path: "lib.lib", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeDecodePreservesLibrary(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			want := dffLibrary()
			data, err := Encode(want, format)
			require.NoError(t, err)

			got, err := Decode(data, format)
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("library changed across %s encoding (-want +got):\n%s", format, diff)
			}
		})
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode([]byte(`{"entries":[{"kind":1,"name":"X","colour":"red","output_pin_list":{}}]}`), FormatJSON)
	require.Error(t, err)

	_, err = Decode([]byte("entries:\n  - kind: 1\n    name: X\n    colour: red\n"), FormatYAML)
	require.Error(t, err)
}

func TestDecodeKeepsUnknownCodes(t *testing.T) {
	lib, err := Decode([]byte(`{"entries":[{"kind":42,"name":"X","output_pin_list":{}}]}`), FormatJSON)
	require.NoError(t, err)
	require.Equal(t, CellKindCode(42), lib.Entries[0].Kind)
	require.Equal(t, "CellKindCode(42)", lib.Entries[0].Kind.String())
}

func TestWriteReadFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"lib.json", "lib.yaml"} {
		path := filepath.Join(dir, "nested", name)
		require.NoError(t, WriteFile(path, dffLibrary()))

		got, err := ReadFile(path)
		require.NoError(t, err)
		require.Len(t, got.Entries, 2)
		require.Equal(t, "DFF_X1", got.Entries[1].Name)
		require.Equal(t, SignalRising, got.Entries[1].StateTable.Rows[0].InputSignals["CK"])
	}

	_, err := ReadFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}
