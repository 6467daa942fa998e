package maplib

func IndexMap[S ~[]E, E comparable](s S) map[E]int {
	ret := make(map[E]int)

	for i, v := range s {
		ret[v] = i
	}
	return ret
}
