package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sizemap/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string  // output file (single format) or base path
	formats     string  // comma-separated output formats
	width       float64 // frame width in pixels
	height      float64 // frame height in pixels
	address     string  // zoom address, e.g. "#root#src"
	interactive bool    // embed hover styling and pointer events in SVG
	noPadding   bool    // disable group headers and gaps
	scale       float64 // PNG scale factor
	depth       int     // outline depth for DOT output
	noCache     bool    // bypass the cache entirely
	refresh     bool    // recompute even if cached
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a tree to SVG, PNG, PDF, JSON, text or DOT",
		Long: `Render a weighted tree as a squarified treemap.

The input is a JSON document of the form {"name": ..., "size": ..., "children": [...]}.
Use "-" to read from stdin. With --address the map is zoomed into the addressed
entry; an address that does not resolve renders the whole tree.`,
		Example: `  sizemap render tree.json
  sizemap render tree.json -f svg,png --width 1920 --height 1080
  sizemap render tree.json --address '#root#src#pkg' -o pkg.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts, cmd.Flags().Changed)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg, png, pdf, json, txt, dot (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", pipeline.DefaultWidth, "frame width")
	cmd.Flags().Float64Var(&opts.height, "height", pipeline.DefaultHeight, "frame height")
	cmd.Flags().StringVarP(&opts.address, "address", "a", "", "zoom address (e.g. '#root#src')")
	cmd.Flags().BoolVar(&opts.interactive, "interactive", false, "embed hover styling and pointer events in SVG")
	cmd.Flags().BoolVar(&opts.noPadding, "no-padding", false, "draw without group headers and gaps")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().IntVar(&opts.depth, "depth", 0, "maximum outline depth for DOT output (0 = unlimited)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if cached")

	return cmd
}

// runRender executes the render pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts, changed func(string) bool) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	data, err := readInput(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	popts := c.pipelineOptions(input, data, opts, changed)
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, popts)
	if err != nil {
		return err
	}
	if opts.address != "" && result.Frame.Address == "" {
		printWarning("Address %s not found, rendered the whole tree", opts.address)
	}

	paths, err := writeArtifacts(result.Artifacts, opts.output, input)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", filepath.Base(input))
	printStats(result.Stats.Entries, result.Stats.Leaves, result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	prog.done(fmt.Sprintf("Rendered %d file(s)", len(paths)))
	return nil
}

// pipelineOptions merges flags over the config file defaults.
func (c *CLI) pipelineOptions(input string, data []byte, opts renderOpts, changed func(string) bool) pipeline.Options {
	width, height := opts.width, opts.height
	if !changed("width") {
		width = c.Config.Render.Width
	}
	if !changed("height") {
		height = c.Config.Render.Height
	}
	return pipeline.Options{
		Input:       data,
		InputName:   input,
		Width:       width,
		Height:      height,
		Address:     opts.address,
		NoPadding:   opts.noPadding,
		Formats:     parseFormats(opts.formats, c.Config.Render.Formats),
		Interactive: opts.interactive,
		Scale:       opts.scale,
		OutlineMax:  opts.depth,
		Refresh:     opts.refresh,
		Logger:      c.Logger,
	}
}

// writeArtifacts writes each artifact to base.format, or to output directly
// when a single format was rendered.
func writeArtifacts(artifacts map[string][]byte, output, input string) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	base := basePath(output, input)
	if input == "-" && output == "" {
		base = "sizemap"
	}

	var paths []string
	for _, format := range formats {
		path := base + "." + format
		if len(formats) == 1 && output != "" {
			path = output
		}
		if err := writeFile(path, artifacts[format]); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}
