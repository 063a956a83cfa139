package plan

import (
	"fmt"

	"mapsynth/internal/analyze"
	"mapsynth/internal/diagnostic"
	"mapsynth/internal/mapping"
	"mapsynth/internal/match"
)

// resolveObject resolves every readable source member against the target,
// then chooses a constructor and places each member in a phase.
func (r *Resolver) resolveObject(n *Node, req *mapping.Request) {
	n.Kind = ObjectMapping

	src, dst := n.Source, n.Target
	pair := n.TypePair()
	ignoreMissing := r.config.ignoreMissing(req.Directives.IgnoreMissing)
	renames := r.memberRenames(n, req)
	targetNames := fieldNames(dst, false)
	claimed := make(map[string]string)

	for i := range src.Fields {
		sf := &src.Fields[i]
		if !sf.Slot.Readable() {
			continue
		}

		rn, renamed := renames[sf.Name]
		m := MemberMapping{
			SourceName: sf.Name,
			Source:     sf,
			Explicit:   renamed && !rn.Derived,
			Loc:        rn.Loc.Or(sf.Loc, src.Loc, req.Loc),
		}

		res := match.Resolve(sf.Name, rn.Target, targetNames)
		if !res.Found() {
			m.State = MemberMissing

			switch {
			case renamed:
				r.reportError(userKind(rn, diagnostic.KindTargetMemberNotFoundUser, diagnostic.KindTargetMemberNotFound),
					fmt.Sprintf("%s: %s has no member %s", renameLabel(n, rn, "rename"), analyze.TypeString(dst), rn.Target),
					m.Loc, pair, sf.Name, r.suggest(rn.Target, targetNames))
			case ignoreMissing:
				m.State = MemberSkipped
			default:
				r.reportError(diagnostic.KindTargetMemberNotFound,
					fmt.Sprintf("source member %s has no counterpart in %s", sf.Name, analyze.TypeString(dst)),
					m.Loc, pair, sf.Name, r.suggest(sf.Name, targetNames))
			}

			n.Members = append(n.Members, m)

			continue
		}

		if prev, taken := claimed[res.Name]; taken {
			m.State = MemberSkipped
			r.plan.Diagnostics.AddInfo(diagnostic.KindMemberSkipped,
				fmt.Sprintf("source member %s skipped: target member %s already receives %s", sf.Name, res.Name, prev),
				m.Loc, pair, sf.Name)
			n.Members = append(n.Members, m)

			continue
		}

		claimed[res.Name] = sf.Name

		tf := dst.Field(res.Name)
		m.TargetName, m.Target, m.Slot = tf.Name, tf, tf.Slot

		conv, ok := r.convert(sf.Type, tf.Type, true)
		if !ok {
			m.State = MemberIncompatible
			r.reportError(diagnostic.KindTypeIncompatible,
				fmt.Sprintf("member %s: cannot convert %s to %s", sf.Name, analyze.TypeString(sf.Type), analyze.TypeString(tf.Type)),
				m.Loc, pair, sf.Name, nil)
		} else {
			m.Conversion = conv
			m.State = MemberPassThrough

			if !conv.IsIdentity() {
				m.State = MemberNested
			}
		}

		n.Members = append(n.Members, m)
	}

	if !r.chooseConstructor(n, req) {
		return
	}

	r.placeMembers(n)
	r.reportUnmappedTargets(n)
}

// memberRenames validates the rename directives against the source type and
// indexes the usable ones by source member name.
func (r *Resolver) memberRenames(n *Node, req *mapping.Request) map[string]mapping.Rename {
	out := make(map[string]mapping.Rename)
	pair := n.TypePair()
	sourceNames := fieldNames(n.Source, true)

	for _, rn := range req.Directives.MemberRenames {
		sf := n.Source.Field(rn.Source)
		if sf == nil || !sf.Slot.Readable() {
			r.reportError(userKind(rn, diagnostic.KindSourceMemberNotFoundUser, diagnostic.KindSourceMemberNotFound),
				fmt.Sprintf("%s: %s has no readable member %s", renameLabel(n, rn, "rename"), analyze.TypeString(n.Source), rn.Source),
				rn.Loc.Or(n.Loc), pair, rn.Source, r.suggest(rn.Source, sourceNames))

			continue
		}

		if _, dup := out[rn.Source]; dup {
			r.plan.Diagnostics.AddWarning(diagnostic.KindInvalidDirective,
				fmt.Sprintf("member %s renamed more than once; the first rename wins", rn.Source),
				rn.Loc.Or(n.Loc), pair, rn.Source)

			continue
		}

		out[rn.Source] = rn
	}

	return out
}

// placeMembers assigns every resolved member to the constructor or the
// initializer phase. A value aimed at a member that can only be populated by
// a constructor the chosen one does not cover is reported.
func (r *Resolver) placeMembers(n *Node) {
	for i := range n.Members {
		m := &n.Members[i]
		if m.State != MemberPassThrough && m.State != MemberNested {
			continue
		}

		if idx := paramIndex(n.Constructor, m.TargetName); idx >= 0 {
			m.Phase = PhaseConstructor
			m.ArgIndex = idx

			continue
		}

		if m.Slot == analyze.SlotSettable {
			m.Phase = PhaseInitializer

			continue
		}

		r.reportError(diagnostic.KindTargetReadOnly,
			fmt.Sprintf("target member %s is %s and no constructor of %s accepts it", m.TargetName, m.Slot, analyze.TypeString(n.Target)),
			m.Loc.Or(m.Target.Loc), n.TypePair(), m.SourceName, nil)
	}
}

// reportUnmappedTargets lists target members that receive no value.
func (r *Resolver) reportUnmappedTargets(n *Node) {
	received := make(map[string]bool)

	for _, m := range n.Members {
		if m.Phase != PhaseNone {
			received[m.TargetName] = true
		}
	}

	for _, p := range n.Constructor.Params {
		if tf := fieldFold(n.Target, p.Name); tf != nil {
			received[tf.Name] = true
		}
	}

	sourceNames := fieldNames(n.Source, true)

	for i := range n.Target.Fields {
		tf := &n.Target.Fields[i]
		if received[tf.Name] {
			continue
		}

		if tf.Slot == analyze.SlotSettable && r.config.StrictTargets {
			r.reportError(diagnostic.KindSourceMemberNotFound,
				fmt.Sprintf("target member %s has no source in %s", tf.Name, analyze.TypeString(n.Source)),
				tf.Loc.Or(n.Target.Loc, n.Loc), n.TypePair(), tf.Name, r.suggest(tf.Name, sourceNames))

			continue
		}

		r.plan.Diagnostics.AddInfo(diagnostic.KindTargetMemberUnmapped,
			fmt.Sprintf("target member %s is left unmapped", tf.Name),
			tf.Loc.Or(n.Target.Loc, n.Loc), n.TypePair(), tf.Name)
	}
}

// fieldNames lists member names in declaration order, optionally only the readable ones.
func fieldNames(t *analyze.TypeInfo, readable bool) []string {
	names := make([]string, 0, len(t.Fields))

	for _, f := range t.Fields {
		if readable && !f.Slot.Readable() {
			continue
		}

		names = append(names, f.Name)
	}

	return names
}

// fieldFold returns the member whose name equals name ignoring case, preferring an exact match.
func fieldFold(t *analyze.TypeInfo, name string) *analyze.FieldInfo {
	res := match.Resolve(name, "", fieldNames(t, false))
	if !res.Found() {
		return nil
	}

	return t.Field(res.Name)
}
