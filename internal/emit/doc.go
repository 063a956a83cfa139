// Package emit turns a resolved plan into emission descriptors: one Routine
// per pair, whose Body is one of EnumDispatch, ConstructorCall,
// ContainerBuild, UserCall or Placeholder.
//
// Descriptors are language neutral. The Go renderer in internal/gen and the
// evaluator in internal/eval both consume them.
package emit
