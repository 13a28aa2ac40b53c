package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/robert-at-pretension-io/celllib/internal/facts"
	"github.com/robert-at-pretension-io/celllib/internal/policy"
)

func newLintCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Check libraries for structural problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lib, err := a.loadLibrary(ctx)
			if err != nil {
				return err
			}
			tables := facts.BuildTables(lib)

			engine, err := policy.New(ctx, a.cfg.PolicyPath(a.root), policy.WithRuleSeverity(a.cfg.RuleSeverity))
			if err != nil {
				return err
			}
			result, err := engine.Evaluate(ctx, tables)
			if err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{
				"cells":      len(tables.Cells),
				"violations": result.Summary.TotalViolations,
			}).Debug("lint complete")

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(out, result); err != nil {
					return err
				}
			} else {
				printViolations(out, result)
			}
			if result.HasErrors() {
				return errLintFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print violations as JSON")
	return cmd
}

func newFactsCmd(a *app) *cobra.Command {
	var cells []string
	cmd := &cobra.Command{
		Use:   "facts",
		Short: "Export the library as relational fact tables (JSON)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.loadLibrary(cmd.Context())
			if err != nil {
				return err
			}
			tables := facts.BuildTables(lib)
			if len(cells) > 0 {
				tables = facts.FilterTablesByCells(tables, toSet(cells))
			}
			return writeJSON(cmd.OutOrStdout(), tables)
		},
	}
	cmd.Flags().StringArrayVar(&cells, "cell", nil, "only export rows for this cell (repeatable)")
	return cmd
}

func printViolations(w io.Writer, result *policy.Result) {
	for _, v := range result.Violations {
		loc := v.Cell
		if v.Row >= 0 {
			loc = fmt.Sprintf("%s:%d", v.Cell, v.Row)
		}
		fmt.Fprintf(w, "%s: %s: %s [%s]\n", loc, v.Severity, v.Message, v.Rule)
	}
	s := result.Summary
	fmt.Fprintf(w, "%d violations (%d errors, %d warnings, %d info)\n", s.TotalViolations, s.Errors, s.Warnings, s.Info)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
