package maplib

type Set[K comparable] map[K]bool

func NewSet[E comparable]() Set[E] {
	return make(Set[E])
}

func (s Set[K]) Add(k K) {
	s[k] = true
}

func (s Set[K]) Contains(k K) bool {
	_, ok := s[k]
	return ok
}

func (s Set[K]) Len() int {
	return len(s)
}
