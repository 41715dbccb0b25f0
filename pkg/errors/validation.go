package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxViewportDimension bounds width and height accepted from hosts.
const MaxViewportDimension = 1 << 15

// ValidateViewport checks a viewport supplied by a host (flags, query
// parameters, terminal size). Zero is allowed and yields an empty layout.
func ValidateViewport(width, height float64) error {
	for _, v := range []float64{width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidViewport, "viewport dimension must be finite")
		}
		if v < 0 {
			return New(ErrCodeInvalidViewport, "viewport dimension cannot be negative: %v", v)
		}
		if v > MaxViewportDimension {
			return New(ErrCodeInvalidViewport, "viewport dimension too large (max %d): %v", MaxViewportDimension, v)
		}
	}
	return nil
}

// ValidateSize checks a node size read from an external tree.
func ValidateSize(name string, size float64) error {
	if math.IsNaN(size) || math.IsInf(size, 0) {
		return New(ErrCodeInvalidTree, "node %q has non-finite size", name)
	}
	if size < 0 {
		return New(ErrCodeInvalidTree, "node %q has negative size %v", name, size)
	}
	return nil
}

// ValidatePath validates a file path supplied on the command line or in a
// config file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateAddress rejects addresses that cannot come from a well-behaved host.
// Addresses that merely fail to resolve are not errors; they fall back to the
// whole-tree view.
func ValidateAddress(addr string) error {
	const maxAddressLength = 8192
	if len(addr) > maxAddressLength {
		return New(ErrCodeInvalidInput, "address too long (max %d characters)", maxAddressLength)
	}
	if strings.ContainsRune(addr, '\x00') {
		return New(ErrCodeInvalidInput, "address contains a null byte")
	}
	return nil
}

// ValidateFormat checks that format is one of supported.
func ValidateFormat(format string, supported []string) error {
	for _, s := range supported {
		if format == s {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(supported, ", "))
}
