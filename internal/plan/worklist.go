package plan

import "mapsynth/internal/mapping"

// worklist hands out pending pairs in FIFO order and remembers every pair it
// has seen, so a pair is resolved at most once.
type worklist struct {
	queue []PairKey
	seen  map[PairKey]*mapping.Request
}

func newWorklist() *worklist {
	return &worklist{seen: make(map[PairKey]*mapping.Request)}
}

// needs registers req unless its pair is already known.
// It reports whether the pair was added.
func (w *worklist) needs(req mapping.Request) (PairKey, bool) {
	key := KeyOf(req.Source, req.Target)
	if _, exists := w.seen[key]; exists {
		return key, false
	}

	w.seen[key] = &req
	w.queue = append(w.queue, key)

	return key, true
}

// next pops the oldest pending pair.
func (w *worklist) next() (*mapping.Request, bool) {
	if len(w.queue) == 0 {
		return nil, false
	}

	key := w.queue[0]
	w.queue = w.queue[1:]

	return w.seen[key], true
}

func (w *worklist) known(key PairKey) bool {
	_, ok := w.seen[key]

	return ok
}

func (w *worklist) request(key PairKey) *mapping.Request {
	return w.seen[key]
}
