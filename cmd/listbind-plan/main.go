// Command listbind-plan prints the update plan between two saved lists.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pstuifzand/tui-listbind/internal/diff"
	"github.com/pstuifzand/tui-listbind/internal/model"
	"github.com/pstuifzand/tui-listbind/internal/plan"
	"github.com/pstuifzand/tui-listbind/internal/search"
	"github.com/pstuifzand/tui-listbind/internal/storage"
)

type options struct {
	summary bool
	dump    bool
	filter  string
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "listbind-plan <old.json> [new.json]",
		Short: "Show the section and row edits between two lists",
		Long: `Show the section and row edits a list view applies when the first list is
replaced by the second.

  With one file and --filter, the plan goes from the whole list to the rows
  the filter query matches.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), args, opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.summary, "summary", "s", false, "print the summary line only")
	cmd.Flags().BoolVar(&opts.dump, "dump", false, "print the raw plan structure")
	cmd.Flags().StringVarP(&opts.filter, "filter", "f", "", "apply a filter query to the new list")
	return cmd
}

func loadSnapshot(path string) (model.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := storage.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc.Snapshot(), nil
}

func run(out io.Writer, args []string, opts options) error {
	prev, err := loadSnapshot(args[0])
	if err != nil {
		return err
	}

	next := prev
	switch {
	case len(args) == 2:
		if next, err = loadSnapshot(args[1]); err != nil {
			return err
		}
	case opts.filter == "":
		return errors.New("need a second list or --filter")
	}
	if opts.filter != "" {
		if next, err = search.FilterQuery(next, opts.filter, false); err != nil {
			return fmt.Errorf("filter: %w", err)
		}
	}

	p, err := plan.Build(prev, next)
	if err != nil {
		return err
	}

	switch {
	case opts.summary:
		fmt.Fprintln(out, p.Summary())
	case opts.dump:
		fmt.Fprint(out, p.Dump())
	default:
		fmt.Fprint(out, diff.Render(p.Lines()))
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
