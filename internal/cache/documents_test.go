package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scorelect/drillboard/pkg/core"
)

func TestDocuments_SetStoresCopy(t *testing.T) {
	c := NewDocuments()
	doc := core.NewDocument("Warmup", core.SportGAA, core.Landscape)
	doc.ID = "d1"

	c.Set(doc)
	doc.Title = "changed"

	got, ok := c.Get("d1")
	require.True(t, ok)
	assert.Equal(t, "Warmup", got.Title)

	got.AddPage()
	again, _ := c.Get("d1")
	assert.Equal(t, 1, again.PageCount(), "callers get their own clone")
}

func TestDocuments_DeleteAndReset(t *testing.T) {
	c := NewDocuments()
	for _, id := range []string{"a", "b"} {
		d := core.NewDocument(id, "", "")
		d.ID = id
		c.Set(d)
	}

	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Reset()
	_, ok = c.Get("b")
	assert.False(t, ok)
}
