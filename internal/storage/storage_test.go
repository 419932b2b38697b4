package storage_test

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scorelect/drillboard/internal/storage"
	"github.com/scorelect/drillboard/pkg/core"
)

func TestPrepare_RequiresTitle(t *testing.T) {
	_, err := storage.Prepare(core.NewDocument("  ", core.SportGAA, core.Landscape), time.Now())
	assert.ErrorIs(t, err, storage.ErrTitleRequired)

	_, err = storage.Prepare(nil, time.Now())
	assert.ErrorIs(t, err, storage.ErrTitleRequired)
}

func TestPrepare_LeavesDocumentUntouched(t *testing.T) {
	doc := core.NewDocument("Drill", core.SportGAA, core.Landscape)
	obj := core.NewObject("c", &core.Marker{Type: core.KindCone, X: 1, Y: 1, Size: 25})
	obj.Handle = image.NewRGBA(image.Rect(0, 0, 1, 1))
	doc.Pages[0].Add(obj)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	saved, err := storage.Prepare(doc, now)
	require.NoError(t, err)

	assert.NotEmpty(t, saved.ID)
	assert.Empty(t, doc.ID)
	assert.Equal(t, now, saved.CreatedAt)
	assert.Equal(t, now, saved.UpdatedAt)
	assert.True(t, doc.UpdatedAt.IsZero())
	assert.Nil(t, saved.Pages[0].Objects[0].Handle)
	assert.NotNil(t, obj.Handle)
}

func TestPrepare_KeepsIDAndCreation(t *testing.T) {
	doc := core.NewDocument("Drill", core.SportGAA, core.Landscape)
	doc.ID = "fixed"
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	doc.CreatedAt = created

	saved, err := storage.Prepare(doc, created.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, "fixed", saved.ID)
	assert.Equal(t, created, saved.CreatedAt)
	assert.Equal(t, created.Add(time.Hour), saved.UpdatedAt)
}

func TestSummarize(t *testing.T) {
	doc := core.NewDocument("Drill", core.SportSoccer, core.Portrait)
	doc.Pages[0].Add(core.NewObject("a", &core.Marker{Type: core.KindBall}))
	doc.AddPage()

	s := storage.Summarize(doc)
	assert.Equal(t, 2, s.Pages)
	assert.Equal(t, 1, s.Objects)
	assert.Equal(t, core.SportSoccer, s.Sport)
}
