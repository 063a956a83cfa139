// Package eval executes emission descriptors over dynamic values.
//
// Objects, enums and containers of any analyzed type are represented by the
// values in this package, each tagged with the type's canonical key. Install
// registers one interpreted routine per descriptor into a registry.Builder,
// so a synthesized program can be run without generating Go source.
package eval
