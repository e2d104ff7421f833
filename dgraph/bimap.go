package dgraph

// BiMap is a one-to-one map. Inserting a pair drops any pair that shared
// either side with it.
type BiMap[L, R comparable] struct {
	lr map[L]R
	rl map[R]L
}

func NewBiMap[L, R comparable]() *BiMap[L, R] {
	return &BiMap[L, R]{lr: map[L]R{}, rl: map[R]L{}}
}

func (m *BiMap[L, R]) Insert(l L, r R) {
	if r2, ok := m.lr[l]; ok {
		delete(m.rl, r2)
	}
	if l2, ok := m.rl[r]; ok {
		delete(m.lr, l2)
	}
	m.lr[l] = r
	m.rl[r] = l
}

func (m *BiMap[L, R]) ByLeft(l L) (R, bool) {
	r, ok := m.lr[l]
	return r, ok
}

func (m *BiMap[L, R]) ByRight(r R) (L, bool) {
	l, ok := m.rl[r]
	return l, ok
}

func (m *BiMap[L, R]) Len() int { return len(m.lr) }

// Range calls f for each pair until f returns false. The order is
// unspecified.
func (m *BiMap[L, R]) Range(f func(l L, r R) bool) {
	for l, r := range m.lr {
		if !f(l, r) {
			return
		}
	}
}
