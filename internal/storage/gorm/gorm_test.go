package gormstorage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scorelect/drillboard/internal/cache"
	"github.com/scorelect/drillboard/internal/database"
	"github.com/scorelect/drillboard/internal/model"
	"github.com/scorelect/drillboard/internal/storage"
	"github.com/scorelect/drillboard/pkg/core"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	db, err := database.GetSqliteDB(filepath.Join(t.TempDir(), "docs.db"))
	require.NoError(t, err)

	b := New(Dependencies{DB: db, Cache: cache.NewDocuments(), Logger: zerolog.Nop()})
	require.NoError(t, b.Init())
	t.Cleanup(func() { b.Close() })
	return b
}

func sampleDocument() *core.Document {
	doc := core.NewDocument("Warm Up", core.SportSoccer, core.Portrait)
	doc.Description = "Rondo"
	doc.Pages[0].Add(core.NewObject("p1", &core.Marker{Type: core.KindPlayer, X: 100, Y: 120, Size: 20, Color: "#ff0000", Label: "9"}))
	doc.Pages[0].Add(core.NewObject("l1", &core.Line{Points: [4]float64{0, 0, 50, 50}, Color: "#ffa500", StrokeWidth: 3}))
	doc.AddPage()
	doc.Pages[1].Add(core.NewObject("t1", &core.Text{X: 10, Y: 10, Text: "Switch", FontSize: 16, Fill: "#ffffff"}))
	return doc
}

func TestInit_RequiresDB(t *testing.T) {
	b := New(Dependencies{Logger: zerolog.Nop()})
	assert.Error(t, b.Init())
}

func TestInit_MigratesSchema(t *testing.T) {
	b := newTestBackend(t)
	assert.True(t, b.DB().Migrator().HasTable(&model.DocumentRecord{}))
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()
	doc := sampleDocument()

	id, err := b.Save(ctx, doc)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Empty(t, doc.ID, "caller's document must not change")

	// bypass the cache
	b.deps.Cache.Reset()
	got, err := b.Load(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Warm Up", got.Title)
	assert.Equal(t, "Rondo", got.Description)
	assert.Equal(t, core.SportSoccer, got.Sport)
	assert.Equal(t, core.Portrait, got.Orientation)
	require.Len(t, got.Pages, 2)
	require.Len(t, got.Pages[0].Objects, 2)
	m, ok := got.Pages[0].Objects[0].Shape.(*core.Marker)
	require.True(t, ok)
	assert.Equal(t, "9", m.Label)
	assert.Equal(t, 100.0, m.X)
	text, ok := got.Pages[1].Objects[0].EditableText()
	require.True(t, ok)
	assert.Equal(t, "Switch", text)
}

func TestSave_UpdateKeepsCreatedAt(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()
	doc := sampleDocument()

	id, err := b.Save(ctx, doc)
	require.NoError(t, err)
	first, err := b.Load(ctx, id)
	require.NoError(t, err)

	first.Title = "Warm Up 2"
	first.CreatedAt = time.Time{}
	_, err = b.Save(ctx, first)
	require.NoError(t, err)

	b.deps.Cache.Reset()
	second, err := b.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Warm Up 2", second.Title)
	assert.WithinDuration(t, first.UpdatedAt, second.CreatedAt, time.Second)

	list, err := b.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSave_RequiresTitle(t *testing.T) {
	b := newTestBackend(t)
	_, err := b.Save(context.Background(), core.NewDocument("", core.SportGAA, core.Landscape))
	assert.ErrorIs(t, err, storage.ErrTitleRequired)
}

func TestLoad_NotFound(t *testing.T) {
	b := newTestBackend(t)
	_, err := b.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestList_NewestFirst(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	b.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	older, err := b.Save(ctx, core.NewDocument("Older", core.SportGAA, core.Landscape))
	require.NoError(t, err)
	newer, err := b.Save(ctx, sampleDocument())
	require.NoError(t, err)

	list, err := b.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer, list[0].ID)
	assert.Equal(t, older, list[1].ID)
	assert.Equal(t, 2, list[0].Pages)
	assert.Equal(t, 3, list[0].Objects)
	assert.Equal(t, core.Portrait, list[0].Orientation)
	assert.Equal(t, core.SportGAA, list[1].Sport)
}

func TestDelete(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	id, err := b.Save(ctx, sampleDocument())
	require.NoError(t, err)

	require.NoError(t, b.Delete(ctx, id))
	_, err = b.Load(ctx, id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, b.Delete(ctx, id), storage.ErrNotFound)
}
