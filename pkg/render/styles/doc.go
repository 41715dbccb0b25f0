// Package styles holds the text measuring and formatting helpers shared by
// the treemap renderers: label fitting, font sizing, XML escaping and
// human-readable sizes.
package styles
