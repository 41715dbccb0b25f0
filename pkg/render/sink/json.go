package sink

import (
	"encoding/json"

	"github.com/matzehuels/sizemap/pkg/treemap"
)

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonOutput)

// WithJSONAddress records the current address.
func WithJSONAddress(addr string) JSONOption {
	return func(o *jsonOutput) { o.Address = addr }
}

// WithJSONHover records the hover state.
func WithJSONHover(visible bool, id int) JSONOption {
	return func(o *jsonOutput) {
		o.Hover = &jsonHover{Visible: visible, ID: id}
	}
}

// WithJSONStats records layout counters.
func WithJSONStats(s treemap.Stats) JSONOption {
	return func(o *jsonOutput) { o.Stats = &s }
}

type jsonOutput struct {
	Width   float64        `json:"width"`
	Height  float64        `json:"height"`
	Address string         `json:"address"`
	Hover   *jsonHover     `json:"hover,omitempty"`
	Stats   *treemap.Stats `json:"stats,omitempty"`
	Items   []treemap.Item `json:"items"`
}

type jsonHover struct {
	Visible bool `json:"visible"`
	ID      int  `json:"id,omitempty"`
}

// RenderJSON exports a frame as a pretty-printed JSON document. Items keep
// their render order.
func RenderJSON(items []treemap.Item, width, height float64, opts ...JSONOption) ([]byte, error) {
	out := jsonOutput{Width: width, Height: height, Items: items}
	if out.Items == nil {
		out.Items = []treemap.Item{}
	}
	for _, opt := range opts {
		opt(&out)
	}
	return json.MarshalIndent(out, "", "  ")
}
