package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/matzehuels/sizemap/pkg/cache"
	"github.com/matzehuels/sizemap/pkg/entry"
	sizeio "github.com/matzehuels/sizemap/pkg/io"
	"github.com/matzehuels/sizemap/pkg/observability"
)

// Load decodes opts.Input into an entry tree and returns it with the content
// hash of the input.
func Load(ctx context.Context, opts Options) (*entry.Entry, string, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, "", err
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.InputName)
	start := time.Now()

	root, err := sizeio.ReadJSON(bytes.NewReader(opts.Input))
	count := 0
	if root != nil {
		count = root.Count()
	}
	hooks.OnLoadComplete(ctx, opts.InputName, count, time.Since(start), err)
	if err != nil {
		return nil, "", err
	}

	opts.Logger.Debug("loaded tree", "input", opts.InputName, "entries", count)
	return root, cache.Hash(opts.Input), nil
}
