package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/robert-at-pretension-io/celllib/internal/celllib"
)

func newQueryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "query <cell> <signal> [name=0|1 ...]",
		Short: "Compute the next value of an internal signal",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.stateTable(cmd, args[0])
			if err != nil {
				return err
			}
			input, err := parseAssignments(args[2:])
			if err != nil {
				return err
			}
			value, err := table.SignalValue(input, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", args[1], bit(value))
			return nil
		},
	}
}

func newNextCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "next <cell> [name=0|1 ...]",
		Short: "Compute the next value of every internal signal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.stateTable(cmd, args[0])
			if err != nil {
				return err
			}
			input, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}
			row, err := table.MatchingRow(input)
			if err != nil {
				return err
			}
			next, err := table.NextState(input)
			if err != nil {
				return err
			}
			a.log.WithField("row", row).Debug("matched state table row")
			out := cmd.OutOrStdout()
			for _, name := range table.InternalNames() {
				fmt.Fprintf(out, "%s=%s\n", name, bit(next[name]))
			}
			return nil
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <cell>",
		Short: "Describe a cell and its state table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.loadLibrary(cmd.Context())
			if err != nil {
				return err
			}
			entry, err := lib.Entry(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				proto, err := entry.ToProto()
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(proto)
			}
			return printEntry(cmd.OutOrStdout(), entry)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the entry in its persisted form")
	return cmd
}

// stateTable loads the library and returns the state table of cell.
func (a *app) stateTable(cmd *cobra.Command, cell string) (*celllib.StateTable, error) {
	lib, err := a.loadLibrary(cmd.Context())
	if err != nil {
		return nil, err
	}
	entry, err := lib.Entry(cell)
	if err != nil {
		return nil, err
	}
	if !entry.IsSequential() {
		return nil, fmt.Errorf("cell %s is %s and has no state table", cell, entry.Kind())
	}
	return entry.StateTable(), nil
}

// parseAssignments turns name=value arguments into a stimulus.
func parseAssignments(args []string) (map[string]bool, error) {
	input := make(map[string]bool, len(args))
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid assignment %q (want name=0|1)", arg)
		}
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %q (want 0 or 1)", name, raw)
		}
		if _, dup := input[name]; dup {
			return nil, fmt.Errorf("signal %s assigned twice", name)
		}
		input[name] = value
	}
	return input, nil
}

func bit(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func printEntry(w io.Writer, entry *celllib.CellLibraryEntry) error {
	fmt.Fprintf(w, "Cell:    %s\n", entry.Name())
	fmt.Fprintf(w, "Kind:    %s\n", entry.Kind())
	fmt.Fprintf(w, "Inputs:  %s\n", strings.Join(entry.InputNames(), ", "))
	fmt.Fprintln(w, "Outputs:")
	functions := entry.OutputPinToFunction()
	for _, pin := range entry.OutputPins() {
		fmt.Fprintf(w, "  %s = %s\n", pin, functions[pin])
	}

	table := entry.StateTable()
	if table == nil {
		return nil
	}
	if missing := entry.UndeclaredStateInputs(); len(missing) > 0 {
		fmt.Fprintf(w, "Note:    state table reads non-pin signals %s\n", strings.Join(missing, ", "))
	}

	fmt.Fprintf(w, "\nState table (%d rows):\n", table.NumRows())
	inputs := table.InputNames()
	sort.Strings(inputs)
	internal := table.InternalNames()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := []string{"#"}
	header = append(header, inputs...)
	header = append(header, internal...)
	header = append(header, ":")
	for _, name := range internal {
		header = append(header, name+"'")
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for i, row := range table.Rows() {
		cells := []string{strconv.Itoa(i)}
		for _, name := range inputs {
			cells = append(cells, row.Stimulus[name].String())
		}
		for _, name := range internal {
			cells = append(cells, row.Stimulus[name].String())
		}
		cells = append(cells, ":")
		for _, name := range internal {
			cells = append(cells, row.Response[name].String())
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
