// Package match resolves member and enum-value names between a source and a
// target type.
//
// Resolution order is fixed: an explicit rename wins, then an exact name, then
// a case-insensitive name. When nothing matches, Suggest ranks the closest
// candidates by normalized edit distance so diagnostics can propose a fix.
package match
