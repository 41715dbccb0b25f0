// Package io provides JSON import and export for size trees.
//
// # JSON Format
//
// A tree is a single nested object. Every node has a name; leaves carry a
// size; non-leaves carry children and may carry an informational size that
// is ignored for layout:
//
//	{
//	  "name": "root",
//	  "children": [
//	    {"name": "src", "children": [
//	      {"name": "main.go", "size": 1200},
//	      {"name": "util.go", "size": 800}
//	    ]},
//	    {"name": "README.md", "size": 300}
//	  ]
//	}
//
// # Import
//
// Use [ImportJSON] to read a tree from a file path, or [ReadJSON] to read
// from any io.Reader. Both decode the document and build an [entry.Entry]
// tree, so structural problems (negative sizes, null children) are reported
// at import time with code INVALID_TREE. Malformed JSON is reported with code
// INVALID_FORMAT and a missing file with FILE_NOT_FOUND.
//
// # Export
//
// Use [ExportJSON] or [WriteJSON] to write a tree back out. Export followed
// by import yields a tree with the same names, sizes and shape (ids are
// always fresh).
//
// [entry.Entry]: github.com/matzehuels/sizemap/pkg/entry.Entry
package io
