package collections_test

import (
	"testing"

	"bennypowers.dev/gqlint/internal/collections"
	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		s := collections.NewSet[string]()
		assert.Equal(t, 0, s.Len())
		assert.False(t, s.Has("a"))
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		s := collections.NewSet("b", "a", "b")
		assert.Equal(t, 2, s.Len())
		assert.True(t, s.Has("a"))
		assert.True(t, s.Has("b"))
	})

	t.Run("remove", func(t *testing.T) {
		s := collections.NewSet(1, 2, 3)
		s.Remove(2)
		s.Remove(42)
		assert.Equal(t, []int{1, 3}, collections.Sorted(s))
	})
}

func TestSorted(t *testing.T) {
	s := collections.NewSet("src/b.js", "src/a.js", "index.html")
	assert.Equal(t, []string{"index.html", "src/a.js", "src/b.js"}, collections.Sorted(s))
	assert.Empty(t, collections.Sorted(collections.NewSet[string]()))
}
