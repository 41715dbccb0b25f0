package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sizemap/pkg/entry"
	"github.com/matzehuels/sizemap/pkg/errors"
	"github.com/matzehuels/sizemap/pkg/pipeline"
	"github.com/matzehuels/sizemap/pkg/render/nodelink"
	"github.com/matzehuels/sizemap/pkg/treemap/address"
	"github.com/matzehuels/sizemap/pkg/treemap/color"
)

var outlineFormats = []string{pipeline.FormatSVG, pipeline.FormatDOT, pipeline.FormatPDF, pipeline.FormatPNG}

type outlineOpts struct {
	output   string
	format   string
	address  string
	depth    int
	detailed bool
	plain    bool
	scale    float64
}

// outlineCommand creates the outline command, a node-link diagram of a tree.
func (c *CLI) outlineCommand() *cobra.Command {
	opts := outlineOpts{format: pipeline.FormatSVG, depth: 3, detailed: true, scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "outline [file]",
		Short: "Draw a tree as a node-link diagram with Graphviz",
		Long: `Draw a tree as a left-to-right node-link diagram.

Nodes carry the colors they have in the treemap. Subtrees below --depth are
collapsed into a single summary node.`,
		Example: `  sizemap outline tree.json
  sizemap outline tree.json -f dot -o - --depth 0
  sizemap outline tree.json --address '#root#src' -f png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOutline(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.<format>, - for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, dot, pdf, png")
	cmd.Flags().StringVarP(&opts.address, "address", "a", "", "start at this address instead of the root")
	cmd.Flags().IntVar(&opts.depth, "depth", opts.depth, "levels to draw below the start entry (0 = unlimited)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", opts.detailed, "show sizes and child counts in labels")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "draw without treemap colors")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")

	return cmd
}

func runOutline(ctx context.Context, input string, opts outlineOpts) error {
	if err := errors.ValidateFormat(opts.format, outlineFormats); err != nil {
		return err
	}
	root, err := loadTree(ctx, input)
	if err != nil {
		return err
	}
	start := outlineStart(root, opts.address)
	if start == root && opts.address != "" && address.Parse(root, opts.address) == nil {
		printWarning("Address %s not found, drawing the whole tree", opts.address)
	}

	data, err := outline(ctx, root, start, opts)
	if err != nil {
		return err
	}

	path := opts.output
	if path == "" {
		path = basePath("", input) + "." + opts.format
		if input == "-" {
			path = appName + "-outline." + opts.format
		}
	}
	if err := writeFile(path, data); err != nil {
		return err
	}
	if path != "-" {
		printSuccess("Outlined %s", filepath.Base(input))
		printFile(path)
	}
	return nil
}

// outlineStart resolves addr, falling back to the root.
func outlineStart(root *entry.Entry, addr string) *entry.Entry {
	if addr == "" {
		return root
	}
	if e := address.Parse(root, addr); e != nil {
		return e
	}
	return root
}

// outline renders the subtree at start in the requested format. Colors are
// assigned over the whole tree so they match the treemap.
func outline(ctx context.Context, root, start *entry.Entry, opts outlineOpts) ([]byte, error) {
	dopts := nodelink.Options{Detailed: opts.detailed, MaxDepth: opts.depth}
	if !opts.plain {
		dopts.Colors = color.New(root)
	}
	dot := nodelink.ToDOT(start, dopts)

	switch opts.format {
	case pipeline.FormatDOT:
		return []byte(dot), nil
	case pipeline.FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case pipeline.FormatPDF:
		return nodelink.RenderPDF(ctx, dot)
	case pipeline.FormatPNG:
		return nodelink.RenderPNG(ctx, dot, opts.scale)
	}
	return nil, fmt.Errorf("unsupported outline format %q", opts.format)
}
