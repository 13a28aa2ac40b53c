package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/robert-at-pretension-io/celllib/internal/celllib"
	"github.com/robert-at-pretension-io/celllib/internal/config"
	"github.com/robert-at-pretension-io/celllib/internal/facts"
	"github.com/robert-at-pretension-io/celllib/internal/schema"
	"github.com/robert-at-pretension-io/celllib/internal/validator"
)

func newInitCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create a celllib.json configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := config.FileName
			if len(args) == 1 {
				configPath = args[0]
			}
			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", configPath)
			}
			if err := config.DefaultConfig().Save(configPath); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created %s\n", configPath)
			fmt.Fprintln(out, "\nEdit this file to configure:")
			fmt.Fprintln(out, "  - Library file patterns")
			fmt.Fprintln(out, "  - Lint rule severities and extra policy modules")
			fmt.Fprintln(out, "  - Logging")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")
	return cmd
}

func newDiffCmd(a *app) *cobra.Command {
	var (
		cells   []string
		summary bool
	)
	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Show fact-level differences between two library files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.newLoader()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			prev, err := l.Load(ctx, args[0])
			if err != nil {
				return err
			}
			next, err := l.Load(ctx, args[1])
			if err != nil {
				return err
			}

			delta := facts.ComputeDelta(facts.BuildTables(prev), facts.BuildTables(next))
			if len(cells) > 0 {
				delta = facts.FilterDeltaByCells(delta, toSet(cells))
			}
			out := cmd.OutOrStdout()
			if summary {
				if delta.Empty() {
					fmt.Fprintln(out, "no changes")
					return nil
				}
				for _, cell := range facts.ChangedCells(delta) {
					fmt.Fprintln(out, cell)
				}
				return nil
			}
			return writeJSON(out, delta)
		},
	}
	cmd.Flags().StringArrayVar(&cells, "cell", nil, "only diff rows for this cell (repeatable)")
	cmd.Flags().BoolVar(&summary, "summary", false, "only list the changed cells")
	return cmd
}

func newConvertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Re-encode a library file (JSON <-> YAML) in canonical form",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.newLoader()
			if err != nil {
				return err
			}
			proto, err := l.LoadFile(args[0])
			if err != nil {
				return err
			}
			// Round trip through the registry so the output is checked and canonical.
			lib, err := celllib.LibraryFromProto(proto)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			canonical, err := lib.ToProto()
			if err != nil {
				return err
			}
			if a.cfg.ShouldValidate() {
				v, err := validator.New()
				if err != nil {
					return err
				}
				if err := v.Validate(canonical); err != nil {
					return fmt.Errorf("%s: %w", args[1], err)
				}
			}
			if err := schema.WriteFile(args[1], canonical); err != nil {
				return err
			}
			a.log.WithField("cells", lib.Len()).Infof("wrote %s", args[1])
			return nil
		},
	}
}
