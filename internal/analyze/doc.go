// Package analyze provides the type descriptor model, shape classification
// and the Go package front-end.
//
// It uses golang.org/x/tools/go/packages with go/types to build descriptors
// for structs, constructors, enums and containers.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: raw kind plus structural capabilities (nullable, enumerable, keyed, textual)
//   - FieldInfo: member name, type and slot kind
//   - Shape: the classification Classify derives from a TypeInfo
package analyze
