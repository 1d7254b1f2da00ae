package store

import (
	"testing"

	"touristhub/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCollection(t *testing.T) {
	ids := func(c Collection[models.Tour]) []string { return c.IDs() }

	t.Run("preserves insertion order", func(t *testing.T) {
		c := NewCollection(models.DefaultTours(), tourID)
		assert.Equal(t, []string{"tour-1", "tour-2", "tour-3"}, ids(c))
		assert.Equal(t, 3, c.Len())
	})

	t.Run("put replaces in place", func(t *testing.T) {
		c := NewCollection(models.DefaultTours(), tourID)
		c.Put("tour-2", models.Tour{ID: "tour-2", Name: "Renamed", Price: 100})

		assert.Equal(t, []string{"tour-1", "tour-2", "tour-3"}, ids(c))
		got, ok := c.Get("tour-2")
		assert.True(t, ok)
		assert.Equal(t, "Renamed", got.Name)
	})

	t.Run("put appends new records", func(t *testing.T) {
		c := NewCollection(models.DefaultTours(), tourID)
		c.Put("tour-4", models.Tour{ID: "tour-4", Name: "New"})
		assert.Equal(t, []string{"tour-1", "tour-2", "tour-3", "tour-4"}, ids(c))
	})

	t.Run("delete removes and keeps order", func(t *testing.T) {
		c := NewCollection(models.DefaultTours(), tourID)
		c.Delete("tour-2")
		assert.Equal(t, []string{"tour-1", "tour-3"}, ids(c))
		assert.False(t, c.Has("tour-2"))
	})

	t.Run("delete unknown id is a no-op", func(t *testing.T) {
		c := NewCollection(models.DefaultTours(), tourID)
		c.Delete("missing")
		assert.Equal(t, 3, c.Len())
	})

	t.Run("clone is independent", func(t *testing.T) {
		c := NewCollection(models.DefaultTours(), tourID)
		clone := c.Clone()
		clone.Delete("tour-1")
		clone.Put("tour-9", models.Tour{ID: "tour-9", Name: "Extra"})

		assert.Equal(t, 3, c.Len())
		assert.True(t, c.Has("tour-1"))
		assert.False(t, c.Has("tour-9"))
	})

	t.Run("read accessors work on unaddressable values", func(t *testing.T) {
		build := func() Collection[models.Tour] {
			return NewCollection(models.DefaultTours(), tourID)
		}

		assert.Equal(t, 3, build().Len())
		assert.True(t, build().Has("tour-1"))
		assert.Equal(t, []string{"tour-1", "tour-2", "tour-3"}, build().IDs())
		assert.Len(t, build().Values(), 3)
		got, ok := build().Get("tour-3")
		assert.True(t, ok)
		assert.Equal(t, "Beach Paradise", got.Name)
	})

	t.Run("values follow id order", func(t *testing.T) {
		c := NewCollection(models.DefaultTours(), tourID)
		values := c.Values()
		assert.Len(t, values, 3)
		assert.Equal(t, "Adventure Explorer", values[0].Name)
		assert.Equal(t, "Beach Paradise", values[2].Name)
	})
}
