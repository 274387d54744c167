package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kasuganosora/datagrid/pkg/grid"
	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const browseHelp = `commands:
  filter <field> [operator] [value]   edit the filter of a column (no value removes it)
  unfilter <field>                    remove the filter of a column
  clear                               remove every filter
  sort <field> [asc|desc]             cycle the sort of a column, or set it
  unsort [field]                      clear the sort
  page <n> | next | prev              change page
  size <n>                            change the page size
  hide <field>                        toggle a column
  showall                             show every column
  refresh                             query the source again
  quit                                leave`

var browseCmd = &cobra.Command{
	Use:   "browse [flags]",
	Short: "browse the configured data source interactively.",
	Long: `Open an interactive prompt over the configured data source. Each command
changes the filters, sort, page or visible columns and prints the
resulting page.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.close(ctx)

		ds, err := env.openSource(ctx, env.cfg.Source)
		if err != nil {
			return err
		}
		columns, err := env.columns(ctx)
		if err != nil {
			return err
		}
		g, err := newGrid(ctx, env, ds, columns, readQueryFlags(cmd))
		if err != nil {
			return err
		}
		defer g.Close()

		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return runBrowse(ctx, g, &scannerReader{bufio.NewScanner(os.Stdin)}, os.Stdout, 0)
		}

		// Raw mode lets term.Terminal handle line editing and history.
		state, err := term.MakeRaw(fd)
		if err != nil {
			return err
		}
		defer term.Restore(fd, state)

		screen := struct {
			io.Reader
			io.Writer
		}{os.Stdin, os.Stdout}
		terminal := term.NewTerminal(screen, "grid> ")
		width, _, err := term.GetSize(fd)
		if err != nil {
			width = 0
		}
		return runBrowse(ctx, g, terminal, terminal, width)
	},
}

// lineReader is satisfied by term.Terminal and scannerReader.
type lineReader interface {
	ReadLine() (string, error)
}

type scannerReader struct {
	scanner *bufio.Scanner
}

func (s *scannerReader) ReadLine() (string, error) {
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// runBrowse reads commands until quit or end of input, printing the page
// after every change. Command errors are printed and do not end the loop.
func runBrowse(ctx context.Context, g *grid.Grid, in lineReader, out io.Writer, width int) error {
	renderSnapshot(out, g.Snapshot(), width)
	for {
		line, err := in.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}

		act, err := parseAction(line, g.Snapshot(), g.Column)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		switch {
		case act.quit:
			return nil
		case act.help:
			fmt.Fprintln(out, browseHelp)
			continue
		case act.none:
			continue
		}

		if err := act.run(ctx, g); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		g.Wait()
		renderSnapshot(out, g.Snapshot(), width)
	}
}

// action is one parsed prompt line.
type action struct {
	cmd     grid.Command
	filter  *filterEdit
	refresh bool
	help    bool
	quit    bool
	none    bool
}

// filterEdit goes through the grid's column filter editor.
type filterEdit struct {
	field    string
	operator domain.FilterOperator
	value    string
}

func (a action) run(ctx context.Context, g *grid.Grid) error {
	switch {
	case a.refresh:
		g.Refresh(ctx)
		return nil
	case a.filter != nil:
		ed := g.Editor()
		if err := ed.OpenColumnFilter(a.filter.field); err != nil {
			return err
		}
		if a.filter.operator != "" {
			if err := ed.SetOperator(a.filter.operator); err != nil {
				ed.Cancel()
				return err
			}
		}
		if err := ed.SetValue(a.filter.value); err != nil {
			ed.Cancel()
			return err
		}
		if err := ed.Commit(ctx); err != nil {
			ed.Cancel()
			return err
		}
		return nil
	default:
		return g.Dispatch(ctx, a.cmd)
	}
}

// parseAction turns a prompt line into an action. Page numbers are
// 1-based at the prompt.
func parseAction(line string, snap grid.Snapshot, lookup columnLookup) (action, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return action{none: true}, nil
	}
	verb, args := strings.ToLower(fields[0]), fields[1:]
	page := snap.Query.Pagination.Page

	switch verb {
	case "quit", "exit", "q":
		return action{quit: true}, nil
	case "help", "?":
		return action{help: true}, nil
	case "refresh":
		return action{refresh: true}, nil
	case "clear":
		return action{cmd: grid.ClearFilters{}}, nil
	case "showall":
		return action{cmd: grid.ShowAllColumns{}}, nil
	case "next":
		return action{cmd: grid.ChangePage{Page: page + 1}}, nil
	case "prev":
		if page == 0 {
			return action{none: true}, nil
		}
		return action{cmd: grid.ChangePage{Page: page - 1}}, nil
	case "filter":
		if len(args) == 0 {
			return action{}, fmt.Errorf("usage: filter <field> [operator] [value]")
		}
		edit := &filterEdit{field: args[0]}
		rest := args[1:]
		if len(rest) > 0 && isOperatorFor(lookup, args[0], rest[0]) {
			edit.operator = domain.FilterOperator(rest[0])
			rest = rest[1:]
		}
		edit.value = strings.Join(rest, " ")
		return action{filter: edit}, nil
	case "unfilter":
		if len(args) != 1 {
			return action{}, fmt.Errorf("usage: unfilter <field>")
		}
		return action{cmd: grid.RemoveFilter{Field: args[0]}}, nil
	case "sort":
		switch len(args) {
		case 1:
			return action{cmd: grid.ToggleSort{Field: args[0]}}, nil
		case 2:
			return action{cmd: grid.SetSort{Field: args[0], Sort: domain.SortDirection(strings.ToLower(args[1]))}}, nil
		}
		return action{}, fmt.Errorf("usage: sort <field> [asc|desc]")
	case "unsort":
		if len(args) > 1 {
			return action{}, fmt.Errorf("usage: unsort [field]")
		}
		var field string
		if len(args) == 1 {
			field = args[0]
		}
		return action{cmd: grid.ClearSort{Field: field}}, nil
	case "page":
		n, err := intArg(args, "page <n>")
		if err != nil {
			return action{}, err
		}
		if n < 1 {
			return action{}, fmt.Errorf("page must be at least 1")
		}
		return action{cmd: grid.ChangePage{Page: n - 1}}, nil
	case "size":
		n, err := intArg(args, "size <n>")
		if err != nil {
			return action{}, err
		}
		return action{cmd: grid.ChangePageSize{PageSize: n}}, nil
	case "hide":
		if len(args) != 1 {
			return action{}, fmt.Errorf("usage: hide <field>")
		}
		return action{cmd: grid.ToggleColumn{Field: args[0]}}, nil
	}
	return action{}, fmt.Errorf("unknown command %q, type help", verb)
}

// columnLookup finds a declared column, hidden or not.
type columnLookup func(field string) (domain.Column, bool)

func isOperatorFor(lookup columnLookup, field, s string) bool {
	col, ok := lookup(field)
	return ok && col.Type.Allows(domain.FilterOperator(s))
}

func intArg(args []string, usage string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", args[0])
	}
	return n, nil
}

func init() {
	rootCmd.AddCommand(browseCmd)
	addQueryFlags(browseCmd)
}
