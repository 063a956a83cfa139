// Package gen renders a synthesized program as Go source.
//
// Every routine becomes one exported function in its own file, and a
// register.go file wires the public signatures into a registry.Builder.
// Output is passed through go/format; when that fails the raw text is kept
// next to the intended file for inspection.
package gen
