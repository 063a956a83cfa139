package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"mapsynth/internal/common"
)

// Kind identifies the class of a diagnostic.
type Kind string

const (
	KindSourceMemberNotFoundUser     Kind = "source_member_not_found_user"
	KindSourceMemberNotFound         Kind = "source_member_not_found"
	KindTargetMemberNotFoundUser     Kind = "target_member_not_found_user"
	KindTargetMemberNotFound         Kind = "target_member_not_found"
	KindTypeIncompatible             Kind = "type_incompatible"
	KindEnumSourceValueNotFoundUser  Kind = "enum_source_value_not_found_user"
	KindEnumSourceValueNotFound      Kind = "enum_source_value_not_found"
	KindEnumTargetValueNotFoundUser  Kind = "enum_target_value_not_found_user"
	KindEnumTargetValueNotFound      Kind = "enum_target_value_not_found"
	KindEnumTypeMismatch             Kind = "enum_type_mismatch"
	KindTargetReadOnly               Kind = "target_read_only"
	KindNoSuitableConstructor        Kind = "no_suitable_constructor"
	KindConstructorParamIncompatible Kind = "constructor_parameter_incompatible"
	KindIllegalReverse               Kind = "illegal_reverse_of_custom_mapping"

	// Informational kinds.
	KindTargetMemberUnmapped Kind = "target_member_unmapped"
	KindMemberSkipped        Kind = "member_skipped"
	KindTypeNotFound         Kind = "type_not_found"
	KindInvalidDirective     Kind = "invalid_directive"
)

// Location is an opaque handle to the place a diagnostic refers to.
// The resolver never inspects it; it only picks the most specific one available.
type Location struct {
	File   string
	Line   int
	Column int
	// Label names the declaration when no file position is known (e.g. "store.Order.Name").
	Label string
}

// IsZero reports whether the location carries no information.
func (l Location) IsZero() bool {
	return l == Location{}
}

// String renders the location as file:line:col, falling back to the label.
func (l Location) String() string {
	switch {
	case l.File != "" && l.Line > 0:
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	case l.File != "":
		return l.File
	default:
		return l.Label
	}
}

// Or returns l unless it is zero, in which case fallbacks are tried in order.
func (l Location) Or(fallbacks ...Location) Location {
	if !l.IsZero() {
		return l
	}

	for _, f := range fallbacks {
		if !f.IsZero() {
			return f
		}
	}

	return Location{}
}

// Diagnostics holds the ordered diagnostic log of one run.
type Diagnostics struct {
	Entries []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Kind is a unique identifier for this type of diagnostic.
	Kind Kind
	// Message is the human-readable description.
	Message string
	// Location is the most specific place the problem can be attributed to.
	Location Location
	// TypePair identifies which type mapping this relates to (if any).
	TypePair string
	// MemberPath identifies which member this relates to (if any).
	MemberPath string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Add appends a diagnostic to the log.
func (d *Diagnostics) Add(diag Diagnostic) {
	d.Entries = append(d.Entries, diag)
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(kind Kind, message string, loc Location, typePair, memberPath string) {
	d.Add(Diagnostic{
		Severity:   DiagnosticError,
		Kind:       kind,
		Message:    message,
		Location:   loc,
		TypePair:   typePair,
		MemberPath: memberPath,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(kind Kind, message string, loc Location, typePair, memberPath string) {
	d.Add(Diagnostic{
		Severity:   DiagnosticWarning,
		Kind:       kind,
		Message:    message,
		Location:   loc,
		TypePair:   typePair,
		MemberPath: memberPath,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(kind Kind, message string, loc Location, typePair, memberPath string) {
	d.Add(Diagnostic{
		Severity:   DiagnosticInfo,
		Kind:       kind,
		Message:    message,
		Location:   loc,
		TypePair:   typePair,
		MemberPath: memberPath,
	})
}

// Errors returns the error diagnostics in log order.
func (d *Diagnostics) Errors() []Diagnostic {
	return d.filter(DiagnosticError)
}

// Warnings returns the warning diagnostics in log order.
func (d *Diagnostics) Warnings() []Diagnostic {
	return d.filter(DiagnosticWarning)
}

func (d *Diagnostics) filter(sev DiagnosticSeverity) []Diagnostic {
	var out []Diagnostic

	for _, e := range d.Entries {
		if e.Severity == sev {
			out = append(out, e)
		}
	}

	return out
}

// ByKind returns all diagnostics of the given kind in log order.
func (d *Diagnostics) ByKind(kind Kind) []Diagnostic {
	var out []Diagnostic

	for _, e := range d.Entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}

	return out
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	for _, e := range d.Entries {
		if e.Severity == DiagnosticError {
			return true
		}
	}

	return false
}

// Merge appends another log after this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Entries = append(d.Entries, other.Entries...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return !d.HasErrors()
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors() {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if loc := d.Location.String(); loc != "" {
		prefix = append(prefix, loc)
	}

	if d.TypePair != "" {
		prefix = append(prefix, "["+d.TypePair+"]")
	}

	if d.MemberPath != "" {
		prefix = append(prefix, d.MemberPath)
	}

	msg := d.Message
	if d.Kind != "" {
		msg = fmt.Sprintf("[%s] %s", d.Kind, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
