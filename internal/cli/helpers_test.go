package cli

import (
	"github.com/matzehuels/sizemap/pkg/entry"
)

// testTree builds root → A(a1:60, a2:40), B:50.
func testTree() *entry.Entry {
	return entry.MustBuild(entry.Node("root",
		entry.Node("A", entry.Leaf("a1", 60), entry.Leaf("a2", 40)),
		entry.Leaf("B", 50),
	))
}
