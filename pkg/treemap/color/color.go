// Package color assigns stable background and foreground colors to entries.
//
// Each top-level child of the root owns a hue spread evenly around the color
// wheel. Descendants inherit their top-level ancestor's hue and get darker
// with depth. Text color is picked for contrast against the background.
package color

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/sizemap/pkg/entry"
)

// Fixed palette values.
const (
	RootBackground = "#cecece"
	LightText      = "#ffffff"
	DarkText       = "#000000"

	saturation    = 0.6
	lightnessTop  = 0.9
	lightnessDeep = 0.3
)

// Pair is a background/foreground color combination, both as #rrggbb.
type Pair struct {
	Background string `json:"background"`
	Foreground string `json:"foreground"`
}

// Assigner hands out colors for one tree. Colors are computed once at
// construction and never change, so zooming does not repaint anything.
type Assigner struct {
	root  *entry.Entry
	pairs map[int]Pair
}

// New precomputes colors for every entry under root.
func New(root *entry.Entry) *Assigner {
	a := &Assigner{root: root, pairs: make(map[int]Pair)}
	if root == nil {
		return a
	}
	a.pairs[root.ID()] = Pair{Background: RootBackground, Foreground: DarkText}

	kids := root.Children()
	maxDepth := root.Height()
	for i, top := range kids {
		hue := 360 * float64(i) / float64(len(kids))
		top.Walk(func(e *entry.Entry) bool {
			a.pairs[e.ID()] = pairFor(hue, lightness(e.Depth()-root.Depth(), maxDepth))
			return true
		})
	}
	return a
}

// Assign returns the colors for e. Entries from another tree get the root
// colors.
func (a *Assigner) Assign(e *entry.Entry) Pair {
	if e == nil {
		return Pair{Background: RootBackground, Foreground: DarkText}
	}
	return a.ByID(e.ID())
}

// ByID returns the colors for an entry id.
func (a *Assigner) ByID(id int) Pair {
	if p, ok := a.pairs[id]; ok {
		return p
	}
	return Pair{Background: RootBackground, Foreground: DarkText}
}

// Len returns the number of colored entries.
func (a *Assigner) Len() int { return len(a.pairs) }

// lightness maps depth linearly from [0, maxDepth] onto [0.9, 0.3].
func lightness(depth, maxDepth int) float64 {
	if maxDepth <= 0 {
		return lightnessTop
	}
	t := float64(depth) / float64(maxDepth)
	return lightnessTop + t*(lightnessDeep-lightnessTop)
}

func pairFor(hue, l float64) Pair {
	c := colorful.Hsl(hue, saturation, l).Clamped()
	return Pair{Background: c.Hex(), Foreground: Foreground(c)}
}

// Foreground picks white text on dark backgrounds and black text otherwise.
func Foreground(c colorful.Color) string {
	if Luminance(c) < 0.5 {
		return LightText
	}
	return DarkText
}

// Luminance returns the relative luminance of c in [0, 1].
func Luminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
