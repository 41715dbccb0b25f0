package color

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/sizemap/pkg/entry"
)

func sample() *entry.Entry {
	return entry.MustBuild(entry.Node("root",
		entry.Node("A", entry.Leaf("a1", 4), entry.Leaf("a2", 6)),
		entry.Leaf("B", 5),
		entry.Leaf("C", 1),
	))
}

func hue(t *testing.T, hex string) float64 {
	t.Helper()
	c, err := colorful.Hex(hex)
	if err != nil {
		t.Fatalf("Hex(%q): %v", hex, err)
	}
	h, _, _ := c.Hsl()
	return h
}

func TestRootColors(t *testing.T) {
	root := sample()
	a := New(root)
	got := a.Assign(root)
	if got.Background != RootBackground || got.Foreground != DarkText {
		t.Errorf("Assign(root) = %+v", got)
	}
	if a.Len() != root.Count() {
		t.Errorf("Len() = %d, want %d", a.Len(), root.Count())
	}
}

func TestTopLevelHues(t *testing.T) {
	root := sample()
	a := New(root)
	tests := []struct {
		name string
		want float64
	}{
		{"A", 0},
		{"B", 120},
		{"C", 240},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := hue(t, a.Assign(root.Child(tt.name)).Background)
			if d := h - tt.want; d > 2 || d < -2 {
				if !(tt.want == 0 && h > 358) {
					t.Errorf("hue(%s) = %.1f, want %.1f", tt.name, h, tt.want)
				}
			}
		})
	}
}

func TestDescendantsDarkerWithSameHue(t *testing.T) {
	root := sample()
	a := New(root)
	top := a.Assign(root.Child("A"))
	leaf := a.Assign(root.Child("A").Child("a1"))

	ct, _ := colorful.Hex(top.Background)
	cl, _ := colorful.Hex(leaf.Background)
	_, _, lt := ct.Hsl()
	_, _, ll := cl.Hsl()
	if ll >= lt {
		t.Errorf("leaf lightness %.2f should be below parent %.2f", ll, lt)
	}
	if d := hue(t, top.Background) - hue(t, leaf.Background); d > 2 || d < -2 {
		t.Errorf("leaf hue drifted by %.1f", d)
	}
	if leaf.Foreground != LightText {
		t.Errorf("deepest node foreground = %s, want %s", leaf.Foreground, LightText)
	}
}

func TestAssignStable(t *testing.T) {
	root := sample()
	a := New(root)
	e := root.Child("B")
	first := a.Assign(e)
	for i := 0; i < 3; i++ {
		if got := a.Assign(e); got != first {
			t.Fatalf("Assign() changed: %+v vs %+v", got, first)
		}
	}
}

func TestForeground(t *testing.T) {
	tests := []struct {
		hex  string
		want string
	}{
		{"#ffffff", DarkText},
		{"#000000", LightText},
		{"#ffff00", DarkText},
		{"#0000ff", LightText},
	}
	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			c, _ := colorful.Hex(tt.hex)
			if got := Foreground(c); got != tt.want {
				t.Errorf("Foreground(%s) = %s, want %s", tt.hex, got, tt.want)
			}
		})
	}
}

func TestUnknownEntry(t *testing.T) {
	a := New(sample())
	other := entry.MustBuild(entry.Leaf("x", 1))
	if got := a.Assign(other); got.Background != RootBackground {
		t.Errorf("Assign(foreign) = %+v", got)
	}
	if got := New(nil).Assign(nil); got.Background != RootBackground {
		t.Errorf("nil assigner = %+v", got)
	}
}
