package slicelib

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapFilter(t *testing.T) {
	assert.Equal(t, []string{"1", "2"}, Map([]int{1, 2}, strconv.Itoa))
	assert.Equal(t, []any{1, 2}, MapToAny([]int{1, 2}))
	assert.Equal(t, []int{2, 4}, Filter([]int{1, 2, 3, 4}, func(it int) bool { return it%2 == 0 }))

	e := errors.New("e")
	assert.Equal(t, []error{e}, FilterNotNil([]error{nil, e, nil}))
}

func TestUniq(t *testing.T) {
	type kv struct {
		k string
		v int
	}
	in := []kv{{"a", 1}, {"b", 2}, {"a", 3}}
	key := func(it kv) string { return it.k }

	assert.Equal(t, []kv{{"a", 1}, {"b", 2}}, UniqBy(in, key))
	assert.Equal(t, []kv{{"b", 2}, {"a", 3}}, UniqByLast(in, key))
}
