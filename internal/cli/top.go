package cli

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sizemap/pkg/entry"
	sizeio "github.com/matzehuels/sizemap/pkg/io"
	"github.com/matzehuels/sizemap/pkg/render/styles"
	"github.com/matzehuels/sizemap/pkg/treemap/address"
)

type topOpts struct {
	limit   int
	depth   int
	leaves  bool
	address string
}

// topCommand creates the top command, a text report of the largest entries.
func (c *CLI) topCommand() *cobra.Command {
	opts := topOpts{limit: 20, depth: 1}

	cmd := &cobra.Command{
		Use:   "top [file]",
		Short: "Print the largest entries of a tree",
		Example: `  sizemap top tree.json
  sizemap top tree.json --leaves -n 50
  sizemap top tree.json --address '#root#src' --depth 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := loadTree(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeTop(os.Stdout, root, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", opts.limit, "number of rows (0 = all)")
	cmd.Flags().IntVar(&opts.depth, "depth", opts.depth, "levels below the start entry to list")
	cmd.Flags().BoolVar(&opts.leaves, "leaves", false, "list leaves at any depth")
	cmd.Flags().StringVarP(&opts.address, "address", "a", "", "start at this address instead of the root")

	return cmd
}

// loadTree reads and builds a tree from a file or stdin.
func loadTree(ctx context.Context, path string) (*entry.Entry, error) {
	logger := loggerFromContext(ctx)
	if path == "-" {
		return sizeio.ReadJSON(os.Stdin)
	}
	root, err := sizeio.ImportJSON(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded tree", "path", path, "entries", root.Count())
	return root, nil
}

type topRow struct {
	entry *entry.Entry
	size  float64
}

// topRows selects and orders the report rows.
func topRows(root *entry.Entry, opts topOpts) (start *entry.Entry, rows []topRow) {
	start = root
	if opts.address != "" {
		if e := address.Parse(root, opts.address); e != nil {
			start = e
		}
	}

	var candidates []*entry.Entry
	if opts.leaves {
		candidates = start.Leaves()
	} else {
		base := start.Depth()
		start.Walk(func(e *entry.Entry) bool {
			d := e.Depth() - base
			if d == opts.depth || (d > 0 && d < opts.depth && e.IsLeaf()) {
				candidates = append(candidates, e)
			}
			return d < opts.depth
		})
	}

	rows = lo.Map(candidates, func(e *entry.Entry, _ int) topRow {
		return topRow{entry: e, size: e.LeafSum()}
	})
	rows = lo.Filter(rows, func(r topRow, _ int) bool { return r.size > 0 })
	slices.SortStableFunc(rows, func(a, b topRow) int {
		return -cmp.Compare(a.size, b.size)
	})
	if opts.limit > 0 && len(rows) > opts.limit {
		rows = rows[:opts.limit]
	}
	return start, rows
}

// writeTop renders the report table to w.
func writeTop(w io.Writer, root *entry.Entry, opts topOpts) error {
	start, rows := topRows(root, opts)
	total := start.LeafSum()

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("%s", start.Name())
	t.AppendHeader(table.Row{"Percent", "Name", "Size", "Type"})

	for _, r := range rows {
		kind := "group"
		if r.entry.IsLeaf() {
			kind = "leaf"
		}
		t.AppendRow(table.Row{styles.Percent(r.size, total), relativeName(start, r.entry), styles.Size(r.size), kind})
	}

	shown := lo.SumBy(rows, func(r topRow) float64 { return r.size })
	t.AppendFooter(table.Row{styles.Percent(shown, total), fmt.Sprintf("Shown (%s rows)", humanize.Comma(int64(len(rows)))), styles.Size(shown)})
	t.AppendFooter(table.Row{"100%", "Total", styles.Size(total)})
	t.Render()
	return nil
}

// relativeName joins the names from just below start down to e.
func relativeName(start, e *entry.Entry) string {
	path := e.Path()[start.Depth()+1:]
	names := lo.Map(path, func(p *entry.Entry, _ int) string { return p.Name() })
	if len(names) == 0 {
		return e.Name()
	}
	return strings.Join(names, "/")
}
