package plan

import (
	"fmt"

	"mapsynth/internal/analyze"
	"mapsynth/internal/diagnostic"
	"mapsynth/internal/mapping"
)

// resolveEnum builds one case per source value: a rename directive wins,
// otherwise the target must declare a value of the exact same name.
func (r *Resolver) resolveEnum(n *Node, req *mapping.Request) {
	n.Kind = EnumMapping

	src, dst := n.Source, n.Target
	pair := n.TypePair()
	sourceNames := enumNames(src)
	targetNames := enumNames(dst)

	renames := make(map[string]mapping.Rename)
	broken := make(map[string]bool)

	for _, rn := range req.Directives.EnumRenames {
		loc := rn.Loc.Or(n.Loc)

		if src.EnumMember(rn.Source) == nil {
			r.reportError(userKind(rn, diagnostic.KindEnumSourceValueNotFoundUser, diagnostic.KindEnumSourceValueNotFound),
				fmt.Sprintf("%s: %s has no value %s", renameLabel(n, rn, "enum rename"), analyze.TypeString(src), rn.Source),
				loc, pair, rn.Source, r.suggest(rn.Source, sourceNames))

			continue
		}

		if _, dup := renames[rn.Source]; dup || broken[rn.Source] {
			r.plan.Diagnostics.AddWarning(diagnostic.KindInvalidDirective,
				fmt.Sprintf("enum value %s renamed more than once; the first rename wins", rn.Source),
				loc, pair, rn.Source)

			continue
		}

		if dst.EnumMember(rn.Target) == nil {
			r.reportError(userKind(rn, diagnostic.KindEnumTargetValueNotFoundUser, diagnostic.KindEnumTargetValueNotFound),
				fmt.Sprintf("%s: %s has no value %s", renameLabel(n, rn, "enum rename"), analyze.TypeString(dst), rn.Target),
				loc, pair, rn.Source, r.suggest(rn.Target, targetNames))

			broken[rn.Source] = true

			continue
		}

		renames[rn.Source] = rn
	}

	for _, sm := range src.EnumMembers {
		if broken[sm.Name] {
			continue
		}

		if rn, ok := renames[sm.Name]; ok {
			n.Cases = append(n.Cases, EnumCase{
				Source:   sm,
				Target:   *dst.EnumMember(rn.Target),
				Explicit: !rn.Derived,
				Loc:      rn.Loc.Or(sm.Loc),
			})

			continue
		}

		tm := dst.EnumMember(sm.Name)
		if tm == nil {
			r.reportError(diagnostic.KindEnumTargetValueNotFound,
				fmt.Sprintf("enum value %s.%s has no counterpart in %s", analyze.TypeString(src), sm.Name, analyze.TypeString(dst)),
				sm.Loc.Or(src.Loc, n.Loc), pair, sm.Name, r.suggest(sm.Name, targetNames))

			continue
		}

		n.Cases = append(n.Cases, EnumCase{
			Source: sm,
			Target: *tm,
			Loc:    sm.Loc.Or(src.Loc),
		})
	}
}

func enumNames(t *analyze.TypeInfo) []string {
	names := make([]string, 0, len(t.EnumMembers))
	for _, m := range t.EnumMembers {
		names = append(names, m.Name)
	}

	return names
}
