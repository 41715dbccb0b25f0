// Package address converts zoom scopes to and from shareable location
// strings such as "#root#src#main.go".
//
// An address lists entry names from the root down to the scoped entry,
// each preceded by [Separator]. Names containing the separator or a percent
// sign are percent-escaped. Parsing never fails: an address that does not
// resolve to an entry means "no scope".
package address

import (
	"net/url"
	"strings"

	"github.com/matzehuels/sizemap/pkg/entry"
)

// Separator prefixes every path segment.
const Separator = "#"

var escaper = strings.NewReplacer("%", "%25", Separator, "%23")

// Serialize returns the address of scope, or "" for no scope.
func Serialize(scope *entry.Entry) string {
	if scope == nil {
		return ""
	}
	var b strings.Builder
	for _, e := range scope.Path() {
		b.WriteString(Separator)
		b.WriteString(escaper.Replace(e.Name()))
	}
	return b.String()
}

// Parse resolves addr against root. Empty, malformed and unknown addresses
// resolve to nil. With duplicate sibling names the first match wins.
func Parse(root *entry.Entry, addr string) *entry.Entry {
	if root == nil {
		return nil
	}
	addr = strings.TrimPrefix(addr, Separator)
	if addr == "" {
		return nil
	}

	segs := strings.Split(addr, Separator)
	if !matches(root.Name(), segs[0]) {
		return nil
	}
	cur := root
	for _, seg := range segs[1:] {
		next := child(cur, seg)
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

// child finds the child named by seg, trying the unescaped form first and
// the raw segment second.
func child(e *entry.Entry, seg string) *entry.Entry {
	if name, err := url.PathUnescape(seg); err == nil {
		if c := e.Child(name); c != nil {
			return c
		}
	}
	return e.Child(seg)
}

func matches(name, seg string) bool {
	if s, err := url.PathUnescape(seg); err == nil && s == name {
		return true
	}
	return seg == name
}
