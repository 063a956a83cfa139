package plan

import (
	"fmt"
	"log/slog"

	"mapsynth/internal/analyze"
	"mapsynth/internal/diagnostic"
	"mapsynth/internal/mapping"
	"mapsynth/internal/match"
)

// Resolver turns requests into a Plan. A Resolver is single-threaded; each
// call to Resolve starts from scratch.
type Resolver struct {
	graph    *analyze.TypeGraph
	requests []mapping.Request
	config   ResolutionConfig
	logger   *slog.Logger

	work *worklist
	plan *Plan
}

// NewResolver creates a Resolver for requests over graph.
func NewResolver(graph *analyze.TypeGraph, requests []mapping.Request, config ResolutionConfig, opts ...Option) *Resolver {
	r := &Resolver{
		graph:    graph,
		requests: requests,
		config:   config,
		logger:   slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve runs the worklist to a fixed point and returns the plan.
func (r *Resolver) Resolve() *Plan {
	r.work = newWorklist()
	r.plan = &Plan{
		Graph: r.graph,
		index: make(map[PairKey]*Node),
	}

	r.seed()

	for {
		req, ok := r.work.next()
		if !ok {
			break
		}

		r.resolve(req)
	}

	r.logger.Info("resolution finished",
		"pairs", len(r.plan.Nodes),
		"errors", len(r.plan.Diagnostics.Errors()),
		"warnings", len(r.plan.Diagnostics.Warnings()))

	return r.plan
}

// seed registers every declared request before anything is resolved.
func (r *Resolver) seed() {
	for i := range r.requests {
		req := unwrapNullable(r.requests[i])
		pair := typePair(req.Source, req.Target)

		if req.UserImplemented && req.Directives.Reverse {
			r.plan.Diagnostics.AddError(diagnostic.KindIllegalReverse,
				fmt.Sprintf("cannot derive a reverse of %s: the forward mapping is user-implemented", pair),
				req.Directives.ReverseLoc.Or(req.Loc), pair, "")
		}

		if !req.UserImplemented {
			ss, ts := analyze.Classify(req.Source), analyze.Classify(req.Target)
			if (ss.Kind == analyze.ShapeEnum) != (ts.Kind == analyze.ShapeEnum) {
				r.plan.Diagnostics.AddError(diagnostic.KindEnumTypeMismatch,
					fmt.Sprintf("%s maps %s to %s: only one side is an enum", pair, ss.Kind, ts.Kind),
					req.Loc.Or(req.Source.Loc), pair, "")

				continue
			}
		}

		if _, added := r.work.needs(req); !added {
			r.plan.Diagnostics.AddWarning(diagnostic.KindInvalidDirective,
				fmt.Sprintf("duplicate mapping %s ignored; the first declaration wins", pair),
				req.Loc, pair, "")
		}
	}
}

// unwrapNullable maps *S -> *T requests onto S -> T; every routine already
// passes an absent source through as an absent target.
func unwrapNullable(req mapping.Request) mapping.Request {
	for req.Source.Nullable != nil && req.Target.Nullable != nil {
		req.Source, req.Target = req.Source.Nullable, req.Target.Nullable
	}

	return req
}

func (r *Resolver) resolve(req *mapping.Request) {
	n := &Node{
		Key:         KeyOf(req.Source, req.Target),
		Source:      req.Source,
		Target:      req.Target,
		Origin:      req.Origin,
		UserFunc:    req.UserFunc,
		UserFuncErr: req.UserFuncErr,
		RoutineName: req.RoutineName,
		Reverse:     req.Directives.Reverse && !req.UserImplemented,
		Loc:         req.Loc.Or(req.Source.Loc),
	}

	r.plan.Nodes = append(r.plan.Nodes, n)
	r.plan.index[n.Key] = n

	before := r.errorCount()
	ss, ts := analyze.Classify(req.Source), analyze.Classify(req.Target)

	switch {
	case req.UserImplemented:
		n.Kind = UserSupplied
	case ss.Kind == analyze.ShapeEnum && ts.Kind == analyze.ShapeEnum:
		r.resolveEnum(n, req)
	case ss.Kind == analyze.ShapeObject && ts.Kind == analyze.ShapeObject:
		r.resolveObject(n, req)
	case ss.Kind == analyze.ShapeDictionary && ts.Kind == analyze.ShapeDictionary:
		r.resolveDictionary(n, req, ss, ts)
	case ss.Kind == analyze.ShapeCollection && ts.Kind == analyze.ShapeCollection:
		r.resolveCollection(n, req, ss, ts)
	default:
		n.Kind = kindForShape(ts.Kind)
		r.plan.Diagnostics.AddError(diagnostic.KindTypeIncompatible,
			fmt.Sprintf("cannot convert %s (%s) to %s (%s)",
				analyze.TypeString(n.Source), ss.Kind, analyze.TypeString(n.Target), ts.Kind),
			n.Loc, n.TypePair(), "")
	}

	n.Valid = r.errorCount() == before

	r.logger.Debug("resolved pair",
		"pair", n.TypePair(),
		"kind", n.Kind.String(),
		"origin", n.Origin.String(),
		"valid", n.Valid)

	if n.Reverse {
		r.deriveReverse(n, req)
	}
}

func kindForShape(s analyze.ShapeKind) NodeKind {
	switch s {
	case analyze.ShapeEnum:
		return EnumMapping
	case analyze.ShapeCollection:
		return CollectionMapping
	case analyze.ShapeDictionary:
		return DictionaryMapping
	default:
		return ObjectMapping
	}
}

func (r *Resolver) errorCount() int {
	return len(r.plan.Diagnostics.Errors())
}

func (r *Resolver) reportError(kind diagnostic.Kind, msg string, loc diagnostic.Location, pair, member string, suggestions []string) {
	r.plan.Diagnostics.Add(diagnostic.Diagnostic{
		Severity:    diagnostic.DiagnosticError,
		Kind:        kind,
		Message:     msg,
		Location:    loc,
		TypePair:    pair,
		MemberPath:  member,
		Suggestions: suggestions,
	})
}

func (r *Resolver) suggest(name string, candidates []string) []string {
	return match.Suggest(name, candidates, r.config.MaxSuggestions)
}

// renameLabel names a rename in messages. A derived rename was never written
// by the user, so it is described through the forward pair it reverses.
func renameLabel(n *Node, rn mapping.Rename, what string) string {
	if rn.Derived {
		return fmt.Sprintf("reverse of %s: %s %s -> %s", typePair(n.Target, n.Source), what, rn.Source, rn.Target)
	}

	return fmt.Sprintf("%s %s -> %s", what, rn.Source, rn.Target)
}

// userKind picks the directive-specific kind unless the rename was derived.
func userKind(rn mapping.Rename, user, implicit diagnostic.Kind) diagnostic.Kind {
	if rn.Derived {
		return implicit
	}

	return user
}
