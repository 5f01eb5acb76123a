package collections_test

import (
	"testing"

	"bennypowers.dev/lupls/internal/collections"
	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	s := collections.NewSet("a", "b", "a")
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("c"))

	s.Delete("a")
	assert.False(t, s.Has("a"))
	assert.Equal(t, "[b]", s.String())
}

func TestSetDifference(t *testing.T) {
	before := collections.NewSet("/a.ts", "/b.ts", "/c.ts")
	after := collections.NewSet("/b.ts", "/d.ts")

	assert.ElementsMatch(t, []string{"/a.ts", "/c.ts"}, before.Difference(after).Members())
	assert.ElementsMatch(t, []string{"/d.ts"}, after.Difference(before).Members())
}

func TestListMap(t *testing.T) {
	lm := collections.NewListMap[string, int]()
	lm.Add("x", 1)
	lm.Add("x", 2)
	lm.Add("x", 1)
	lm.Add("y", 3)

	assert.Equal(t, []int{1, 2}, lm.Get("x"))
	assert.Equal(t, 2, lm.KeyCount())
	assert.ElementsMatch(t, []int{1, 2, 3}, lm.Values())

	lm.Delete("x", 1)
	assert.Equal(t, []int{2}, lm.Get("x"))

	lm.Delete("x", 2)
	assert.False(t, lm.Has("x"))
	assert.ElementsMatch(t, []string{"y"}, lm.Keys())

	lm.DeleteKey("y")
	assert.Equal(t, 0, lm.KeyCount())
	assert.Nil(t, lm.Get("y"))
}

func TestListMapDeleteDoesNotAliasCallerSlice(t *testing.T) {
	lm := collections.NewListMap[string, string]()
	lm.Add("k", "a")
	lm.Add("k", "b")
	held := lm.Get("k")

	lm.Delete("k", "a")
	assert.Equal(t, []string{"a", "b"}, held)
	assert.Equal(t, []string{"b"}, lm.Get("k"))
}
