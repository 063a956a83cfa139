// Package cli parses the mapsynth command line and runs the generation
// pipeline: load Go packages, read the mapping file, resolve the plan,
// synthesize routines and write them as Go source.
package cli
