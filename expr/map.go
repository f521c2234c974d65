package expr

// Map interns expressions: equal expressions are stored once.
type Map map[uint64][]mapEntry

type mapEntry struct {
	e Expression
	v int
}

func (m Map) Find(e Expression) (int, bool) {
	s, ok := m[e.HashCode()]
	if !ok {
		return 0, false
	}
	for _, x := range s {
		if x.e.Equal(e) {
			return x.v, true
		}
	}
	return 0, false
}

// Add stores v for e unless e is already present, and returns the stored value.
func (m Map) Add(e Expression, v int) int {
	h := e.HashCode()
	for _, x := range m[h] {
		if x.e.Equal(e) {
			return x.v
		}
	}
	m[h] = append(m[h], mapEntry{e: e, v: v})
	return v
}

func (m Map) Clear() {
	for k := range m {
		delete(m, k)
	}
}
