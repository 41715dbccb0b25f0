package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/sizemap/pkg/entry"
	"github.com/matzehuels/sizemap/pkg/observability"
	"github.com/matzehuels/sizemap/pkg/treemap"
)

// NewView creates a view over root sized and zoomed as opts describe.
func NewView(root *entry.Entry, opts Options) (*treemap.View, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	v := treemap.New(root,
		treemap.WithLayoutOptions(opts.LayoutOptions()),
		treemap.WithLogger(opts.Logger),
	)
	if err := v.Resize(opts.Width, opts.Height); err != nil {
		return nil, err
	}
	v.Navigate(opts.Address)
	return v, nil
}

// ComputeFrame lays out root for the viewport and address in opts.
// Addresses that do not resolve produce the unzoomed frame, and the returned
// Frame carries the address actually shown.
func ComputeFrame(ctx context.Context, root *entry.Entry, opts Options) (Frame, error) {
	hooks := observability.Pipeline()
	count := 0
	if root != nil {
		count = root.Count()
	}
	hooks.OnLayoutStart(ctx, count)
	start := time.Now()

	v, err := NewView(root, opts)
	if err != nil {
		hooks.OnLayoutComplete(ctx, 0, time.Since(start), err)
		return Frame{}, err
	}
	f := FrameOf(v)
	hooks.OnLayoutComplete(ctx, len(f.Items), time.Since(start), nil)
	return f, nil
}

// FrameOf snapshots the current frame of a view.
func FrameOf(v *treemap.View) Frame {
	vp := v.Viewport()
	return Frame{
		Width:   vp.Width,
		Height:  vp.Height,
		Address: v.Address(),
		Items:   v.Frame(),
	}
}
