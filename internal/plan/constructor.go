package plan

import (
	"fmt"
	"strings"

	"mapsynth/internal/analyze"
	"mapsynth/internal/diagnostic"
	"mapsynth/internal/mapping"
)

type paramMiss struct {
	ctor   *analyze.Constructor
	param  analyze.Param
	member *analyze.FieldInfo
}

// chooseConstructor picks, among the constructors whose parameters can all be
// fed from readable source members, the one covering the most target members.
// Ties go to the earliest declared. It reports false when none qualifies.
func (r *Resolver) chooseConstructor(n *Node, req *mapping.Request) bool {
	dst := n.Target

	var (
		best      *analyze.Constructor
		bestCover = -1
		miss      *paramMiss
	)

	for i := range dst.Constructors {
		c := &dst.Constructors[i]

		_, pm, ok := r.bindConstructor(n, c, false)
		if !ok {
			if miss == nil && pm != nil {
				miss = pm
			}

			continue
		}

		if cover := coverage(n, c); cover > bestCover {
			best, bestCover = c, cover
		}
	}

	if best == nil {
		if miss != nil {
			r.reportError(diagnostic.KindConstructorParamIncompatible,
				fmt.Sprintf("constructor %s: parameter %s of type %s cannot be fed from member %s of type %s",
					ctorName(dst, miss.ctor), miss.param.Name, analyze.TypeString(miss.param.Type),
					miss.member.Name, analyze.TypeString(miss.member.Type)),
				miss.member.Loc.Or(miss.ctor.Loc, dst.Loc, req.Loc), n.TypePair(), miss.member.Name, nil)
		}

		r.reportError(diagnostic.KindNoSuitableConstructor,
			fmt.Sprintf("no constructor of %s can be satisfied from %s", analyze.TypeString(dst), analyze.TypeString(n.Source)),
			dst.Loc.Or(req.Loc), n.TypePair(), "", nil)

		return false
	}

	args, _, _ := r.bindConstructor(n, best, true)
	n.Constructor = best
	n.Args = args

	r.logger.Debug("chose constructor",
		"pair", n.TypePair(),
		"constructor", ctorName(dst, best),
		"covers", bestCover)

	return true
}

// bindConstructor feeds each parameter from the member mapped onto the
// same-named target member, else from the same-named readable source member.
func (r *Resolver) bindConstructor(n *Node, c *analyze.Constructor, queue bool) ([]ConstructorArg, *paramMiss, bool) {
	args := make([]ConstructorArg, 0, len(c.Params))

	for _, p := range c.Params {
		member := paramSource(n, p.Name)
		if member == nil {
			return nil, nil, false
		}

		conv, ok := r.convert(member.Type, p.Type, queue)
		if !ok {
			return nil, &paramMiss{ctor: c, param: p, member: member}, false
		}

		args = append(args, ConstructorArg{Param: p, Member: member, Conversion: conv})
	}

	return args, nil, true
}

func paramSource(n *Node, param string) *analyze.FieldInfo {
	for _, m := range n.Members {
		if m.Target != nil && m.Source != nil && strings.EqualFold(m.TargetName, param) &&
			(m.State == MemberPassThrough || m.State == MemberNested) {
			return m.Source
		}
	}

	sf := fieldFold(n.Source, param)
	if sf == nil || !sf.Slot.Readable() {
		return nil
	}

	return sf
}

// coverage counts the target members bound by c's parameters.
func coverage(n *Node, c *analyze.Constructor) int {
	covered := make(map[string]bool)

	for _, p := range c.Params {
		if tf := fieldFold(n.Target, p.Name); tf != nil {
			covered[tf.Name] = true
		}
	}

	return len(covered)
}

func paramIndex(c *analyze.Constructor, member string) int {
	if c == nil {
		return -1
	}

	for i, p := range c.Params {
		if strings.EqualFold(p.Name, member) {
			return i
		}
	}

	return -1
}

func ctorName(t *analyze.TypeInfo, c *analyze.Constructor) string {
	if c.IsLiteral() {
		return analyze.TypeString(t) + "{}"
	}

	return c.Name
}
