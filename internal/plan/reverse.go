package plan

import (
	"mapsynth/internal/mapping"
)

// deriveReverse queues the inverse of n. Directive renames are swapped and
// stay directives; correspondences found by name are pinned as derived
// renames. The inverse is resolved like any other pair, so it can fail where
// the forward pair succeeded. A pair already declared in the inverse
// direction keeps its own declaration.
func (r *Resolver) deriveReverse(n *Node, req *mapping.Request) {
	rev := mapping.Request{
		Source:     n.Target,
		Target:     n.Source,
		Directives: req.Directives.Swapped(),
		Origin:     mapping.OriginImplicit,
		Loc:        req.Loc,
	}

	switch n.Kind {
	case ObjectMapping:
		for _, m := range n.Members {
			if m.Target == nil || m.Explicit || m.SourceName == m.TargetName {
				continue
			}

			rev.Directives.MemberRenames = append(rev.Directives.MemberRenames, mapping.Rename{
				Source:  m.TargetName,
				Target:  m.SourceName,
				Loc:     m.Loc,
				Derived: true,
			})
		}

	case EnumMapping:
		for _, c := range n.Cases {
			if c.Explicit || c.Source.Name == c.Target.Name {
				continue
			}

			rev.Directives.EnumRenames = append(rev.Directives.EnumRenames, mapping.Rename{
				Source:  c.Target.Name,
				Target:  c.Source.Name,
				Loc:     c.Loc,
				Derived: true,
			})
		}
	}

	key, added := r.work.needs(rev)
	r.logger.Debug("reverse pair",
		"forward", n.TypePair(),
		"reverse", string(key),
		"queued", added)
}
