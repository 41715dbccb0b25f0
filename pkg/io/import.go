package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/sizemap/pkg/entry"
	"github.com/matzehuels/sizemap/pkg/errors"
)

// ReadJSON decodes a JSON tree from r and builds it.
//
// ReadJSON returns an error if the JSON is malformed, the document is empty
// or null, or the tree fails validation in [entry.Build]. ReadJSON does not
// close r.
func ReadJSON(r io.Reader) (*entry.Entry, error) {
	var src *entry.Source
	if err := json.NewDecoder(r).Decode(&src); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode tree")
	}
	if src == nil {
		return nil, errors.New(errors.ErrCodeInvalidTree, "document is null")
	}
	return entry.Build(src)
}

// ImportJSON reads a JSON file at path and returns the built tree.
func ImportJSON(path string) (*entry.Entry, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
