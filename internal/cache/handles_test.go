package cache

import (
	"image"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tile(w int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, w))
}

func TestHandles_NewHandles(t *testing.T) {
	c := NewHandles()

	require.NotNil(t, c)
	assert.NotNil(t, c.handles)
	assert.Equal(t, 0, c.Len())
}

func TestHandles_SetAndGet(t *testing.T) {
	c := NewHandles()
	img := tile(4)

	c.Set("pitch/GAA", img)

	got, ok := c.Get("pitch/GAA")
	require.True(t, ok, "expected to find pitch/GAA")
	assert.Same(t, img, got)
}

func TestHandles_Get_NotFound(t *testing.T) {
	c := NewHandles()

	_, ok := c.Get("pitch/Soccer")
	assert.False(t, ok)
}

func TestHandles_GetOrCreate(t *testing.T) {
	c := NewHandles()
	calls := 0
	create := func() image.Image {
		calls++
		return tile(8)
	}

	first := c.GetOrCreate("cone", create)
	second := c.GetOrCreate("cone", create)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestHandles_GetOrCreate_NilNotStored(t *testing.T) {
	c := NewHandles()

	img := c.GetOrCreate("missing", func() image.Image { return nil })

	assert.Nil(t, img)
	assert.Equal(t, 0, c.Len())
}

func TestHandles_DeleteAndReset(t *testing.T) {
	c := NewHandles()
	c.Set("a", tile(1))
	c.Set("b", tile(1))

	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	// Should not panic when deleting a missing key
	c.Delete("nonexistent")

	c.Reset()
	assert.Equal(t, 0, c.Len())
	c.Set("c", tile(1))
	_, ok = c.Get("c")
	assert.True(t, ok, "expected to find c after reset")
}

func TestHandles_ConcurrentGetOrCreate(t *testing.T) {
	c := NewHandles()
	var calls atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			c.GetOrCreate("key"+strconv.Itoa(id%5), func() image.Image {
				calls.Add(1)
				return tile(2)
			})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(5), calls.Load())
	assert.Equal(t, 5, c.Len())
}
