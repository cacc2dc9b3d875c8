package webgl

import "github.com/soypat/psurf/gfx"

// locationTable hands out gfx.Uniform ids for values queried from a program.
// Ids stay valid until the owning program is forgotten.
type locationTable[T any] struct {
	byName map[locationKey]gfx.Uniform
	values map[gfx.Uniform]T
	owned  map[uint32][]gfx.Uniform
	next   gfx.Uniform
}

type locationKey struct {
	program uint32
	name    string
}

// lookup returns the id of name in program, calling load the first time
// the pair is seen. A load reporting false yields -1 and is not stored.
func (t *locationTable[T]) lookup(program uint32, name string, load func() (T, bool)) gfx.Uniform {
	key := locationKey{program: program, name: name}
	if id, ok := t.byName[key]; ok {
		return id
	}
	v, ok := load()
	if !ok {
		return -1
	}
	if t.byName == nil {
		t.byName = make(map[locationKey]gfx.Uniform)
		t.values = make(map[gfx.Uniform]T)
		t.owned = make(map[uint32][]gfx.Uniform)
	}
	id := t.next
	t.next++
	t.byName[key] = id
	t.values[id] = v
	t.owned[program] = append(t.owned[program], id)
	return id
}

func (t *locationTable[T]) get(id gfx.Uniform) (v T, ok bool) {
	v, ok = t.values[id]
	return v, ok
}

// forget drops every location queried from program.
func (t *locationTable[T]) forget(program uint32) {
	for _, id := range t.owned[program] {
		delete(t.values, id)
	}
	for key := range t.byName {
		if key.program == program {
			delete(t.byName, key)
		}
	}
	delete(t.owned, program)
}

func (t *locationTable[T]) len() int { return len(t.values) }

// Releaser is implemented by js.Func and other values holding resources
// that outlive the Go garbage collector.
type Releaser interface {
	Release()
}

// ReleaseGroup collects Releasers and releases them together, once.
type ReleaseGroup struct {
	items    []Releaser
	released bool
}

// Add registers r. Adding to a released group releases r immediately.
func (g *ReleaseGroup) Add(r Releaser) {
	if g.released {
		r.Release()
		return
	}
	g.items = append(g.items, r)
}

// Release releases every registered value in reverse order of addition.
// Calls after the first do nothing.
func (g *ReleaseGroup) Release() {
	if g.released {
		return
	}
	g.released = true
	for i := len(g.items) - 1; i >= 0; i-- {
		g.items[i].Release()
	}
	g.items = nil
}
