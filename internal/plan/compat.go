package plan

import (
	"mapsynth/internal/analyze"
	"mapsynth/internal/mapping"
)

// Compatible reports whether a value of src can be converted to dst given
// the pairs known so far. It never queues new pairs.
func (r *Resolver) Compatible(src, dst *analyze.TypeInfo) bool {
	_, ok := r.convert(src, dst, false)

	return ok
}

// convert decides how src becomes dst:
//   - identical types are copied;
//   - a known pair (queued, resolved or user supplied) is invoked;
//   - nullable wrappers convert their underlying types;
//   - object and enum pairs are queued;
//   - dictionaries need convertible keys and values, collections convertible
//     elements, before the container pair itself is queued.
//
// When queue is false nothing is added to the worklist.
func (r *Resolver) convert(src, dst *analyze.TypeInfo, queue bool) (Conversion, bool) {
	if src == nil || dst == nil {
		return Conversion{}, false
	}

	if analyze.SameType(src, dst) {
		return Conversion{Mode: ConvertIdentity}, true
	}

	key := KeyOf(src, dst)
	if r.work.known(key) {
		return Conversion{Mode: ConvertRoutine, Pair: key}, true
	}

	ss, ts := analyze.Classify(src), analyze.Classify(dst)

	switch {
	case ss.Kind == analyze.ShapeNullable && ts.Kind == analyze.ShapeNullable:
		c, ok := r.convert(ss.Underlying, ts.Underlying, queue)
		if !ok || c.IsIdentity() {
			return c, ok
		}

		c.Nullable = true

		return c, true

	case ss.Kind == ts.Kind && (ss.Kind == analyze.ShapeObject || ss.Kind == analyze.ShapeEnum):
		return r.enqueue(src, dst, queue), true

	case ss.Kind == analyze.ShapeDictionary && ts.Kind == analyze.ShapeDictionary:
		if _, ok := r.convert(ss.Key, ts.Key, queue); !ok {
			return Conversion{}, false
		}

		if _, ok := r.convert(ss.Value, ts.Value, queue); !ok {
			return Conversion{}, false
		}

		return r.enqueue(src, dst, queue), true

	case ss.Kind == analyze.ShapeCollection && ts.Kind == analyze.ShapeCollection:
		if _, ok := r.convert(ss.Elem, ts.Elem, queue); !ok {
			return Conversion{}, false
		}

		return r.enqueue(src, dst, queue), true
	}

	return Conversion{}, false
}

func (r *Resolver) enqueue(src, dst *analyze.TypeInfo, queue bool) Conversion {
	key := KeyOf(src, dst)

	if queue {
		if _, added := r.work.needs(mapping.Request{
			Source: src,
			Target: dst,
			Origin: mapping.OriginImplicit,
			Loc:    src.Loc,
		}); added {
			r.logger.Debug("queued pair", "pair", typePair(src, dst))
		}
	}

	return Conversion{Mode: ConvertRoutine, Pair: key}
}
