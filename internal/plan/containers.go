package plan

import (
	"fmt"

	"mapsynth/internal/analyze"
	"mapsynth/internal/diagnostic"
	"mapsynth/internal/mapping"
)

func (r *Resolver) resolveCollection(n *Node, req *mapping.Request, ss, ts analyze.Shape) {
	n.Kind = CollectionMapping

	elem, ok := r.convert(ss.Elem, ts.Elem, true)
	if !ok {
		r.reportError(diagnostic.KindTypeIncompatible,
			fmt.Sprintf("element type %s cannot be converted to %s", analyze.TypeString(ss.Elem), analyze.TypeString(ts.Elem)),
			n.Loc, n.TypePair(), "", nil)

		return
	}

	n.Container = concretize(ss, ts, n.Target.Len)
	n.Container.Elem = elem
	n.Container.Project = !elem.IsIdentity()
	n.Container.Copy = copyPolicy(n.Container, r.config.deepCopy(req.Directives.DeepCopy))
}

func (r *Resolver) resolveDictionary(n *Node, req *mapping.Request, ss, ts analyze.Shape) {
	n.Kind = DictionaryMapping

	key, keyOK := r.convert(ss.Key, ts.Key, true)
	if !keyOK {
		r.reportError(diagnostic.KindTypeIncompatible,
			fmt.Sprintf("key type %s cannot be converted to %s", analyze.TypeString(ss.Key), analyze.TypeString(ts.Key)),
			n.Loc, n.TypePair(), "", nil)
	}

	value, valueOK := r.convert(ss.Value, ts.Value, true)
	if !valueOK {
		r.reportError(diagnostic.KindTypeIncompatible,
			fmt.Sprintf("value type %s cannot be converted to %s", analyze.TypeString(ss.Value), analyze.TypeString(ts.Value)),
			n.Loc, n.TypePair(), "", nil)
	}

	if !keyOK || !valueOK {
		return
	}

	n.Container = concretize(ss, ts, 0)
	n.Container.Key = key
	n.Container.Value = value
	n.Container.Project = !key.IsIdentity() || !value.IsIdentity()
	n.Container.Copy = copyPolicy(n.Container, r.config.deepCopy(req.Directives.DeepCopy))
}

// concretize chooses the container built for the target: contracts become
// their default concrete container, concrete containers are kept.
func concretize(ss, ts analyze.Shape, length int) *ContainerPlan {
	return &ContainerPlan{
		SourceContainer: ss.Container,
		Concrete:        ConcreteContainer(ts.Container),
		Len:             length,
	}
}

// ConcreteContainer returns the container built for kind.
func ConcreteContainer(kind analyze.ContainerKind) analyze.ContainerKind {
	switch kind {
	case analyze.ContainerSetContract:
		return analyze.ContainerSet
	case analyze.ContainerSequenceContract:
		return analyze.ContainerList
	case analyze.ContainerMapContract:
		return analyze.ContainerMap
	default:
		return kind
	}
}

// copyPolicy decides how the target storage is obtained. A projection always
// allocates; without one, deep copies allocate and shallow copies share the
// source storage when both sides are the same container family.
func copyPolicy(cp *ContainerPlan, deep bool) CopyPolicy {
	if cp.Project || deep {
		return CopyFresh
	}

	if cp.SourceContainer == cp.Concrete {
		return CopyShare
	}

	return CopyFresh
}
