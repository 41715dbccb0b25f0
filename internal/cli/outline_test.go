package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/sizemap/pkg/errors"
)

func TestOutlineStart(t *testing.T) {
	root := testTree()
	tests := []struct {
		addr string
		want string
	}{
		{"", "root"},
		{"#root#A", "A"},
		{"#root#missing", "root"},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			if got := outlineStart(root, tt.addr).Name(); got != tt.want {
				t.Errorf("outlineStart(%q) = %q, want %q", tt.addr, got, tt.want)
			}
		})
	}
}

func TestOutlineDOT(t *testing.T) {
	root := testTree()
	a := root.Child("A")
	data, err := outline(context.Background(), root, a, outlineOpts{format: "dot", detailed: true})
	if err != nil {
		t.Fatal(err)
	}
	dot := string(data)
	if !strings.HasPrefix(dot, "digraph G {") {
		t.Errorf("not a DOT graph: %q", dot)
	}
	if !strings.Contains(dot, "a1") || strings.Contains(dot, `"B`) {
		t.Errorf("outline of A should contain a1 and not B:\n%s", dot)
	}
	if !strings.Contains(dot, "fillcolor=\"#") {
		t.Errorf("colored outline has no fill colors:\n%s", dot)
	}

	plain, err := outline(context.Background(), root, a, outlineOpts{format: "dot", plain: true})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(plain), "fillcolor=\"#") {
		t.Errorf("plain outline has fill colors:\n%s", plain)
	}
}

func TestRunOutlineBadFormat(t *testing.T) {
	err := runOutline(context.Background(), "tree.json", outlineOpts{format: "gif"})
	if got := errors.GetCode(err); got != errors.ErrCodeInvalidFormat {
		t.Errorf("code = %q, want %q", got, errors.ErrCodeInvalidFormat)
	}
}
