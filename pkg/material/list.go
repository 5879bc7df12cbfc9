package material

import "strconv"

// Index is an opaque handle into a List
type Index int

// NoMaterial is the absent material tag
const NoMaterial Index = -1

// Valid reports whether the index carries a material tag at all. A valid
// index may still be out of range for a particular List.
func (i Index) Valid() bool {
	return i >= 0
}

func (i Index) String() string {
	if !i.Valid() {
		return "none"
	}
	return strconv.Itoa(int(i))
}

// List stores materials in insertion order. Entries are never removed or
// replaced, so an Index stays meaningful for the lifetime of the list.
type List struct {
	materials []Material
}

// NewList creates an empty material list
func NewList() *List {
	return &List{}
}

// Add appends a material and returns its handle
func (l *List) Add(m Material) Index {
	l.materials = append(l.materials, m)
	return Index(len(l.materials) - 1)
}

// Get looks up a material. It reports false for NoMaterial and for indices
// that were not issued by this list.
func (l *List) Get(i Index) (Material, bool) {
	if l == nil || i < 0 || int(i) >= len(l.materials) {
		return Material{}, false
	}
	return l.materials[i], true
}

// Resolve returns the material for i, or Default() when it does not resolve
func (l *List) Resolve(i Index) Material {
	if m, ok := l.Get(i); ok {
		return m
	}
	return Default()
}

// Len returns the number of materials
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.materials)
}
