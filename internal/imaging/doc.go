// Package imaging implements the pixel transforms behind the
// invocation catalog. Every function is pure: it returns a new image
// and never mutates its inputs.
package imaging
