package match

import "strings"

// Rule tells how a name was matched.
type Rule int

const (
	// NoMatch means no candidate corresponds to the name.
	NoMatch Rule = iota
	// ByRename means an explicit directive named the counterpart.
	ByRename
	// ByExact means a candidate has the very same name.
	ByExact
	// ByCaseInsensitive means a candidate differs only in letter case.
	ByCaseInsensitive
)

// String returns the rule name.
func (r Rule) String() string {
	switch r {
	case ByRename:
		return "rename"
	case ByExact:
		return "exact"
	case ByCaseInsensitive:
		return "case-insensitive"
	default:
		return "none"
	}
}

// Result is the outcome of a name lookup.
type Result struct {
	Name string
	Rule Rule
}

// Found reports whether a counterpart was found.
func (r Result) Found() bool {
	return r.Rule != NoMatch
}

// Resolve looks up the counterpart of name among candidates.
//
// A non-empty rename is authoritative: it matches only if a candidate carries
// exactly that name, and no fallback to name-based matching happens. Otherwise
// an exact match wins over a case-insensitive one; among several
// case-insensitive matches the first candidate wins.
func Resolve(name, rename string, candidates []string) Result {
	if rename != "" {
		for _, c := range candidates {
			if c == rename {
				return Result{Name: c, Rule: ByRename}
			}
		}

		return Result{}
	}

	for _, c := range candidates {
		if c == name {
			return Result{Name: c, Rule: ByExact}
		}
	}

	for _, c := range candidates {
		if strings.EqualFold(c, name) {
			return Result{Name: c, Rule: ByCaseInsensitive}
		}
	}

	return Result{}
}
