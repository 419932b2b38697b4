// Package gormstorage implements storage.Backend on a GORM database. The
// sqlite and postgres backends embed it and only differ in how the
// connection is opened and kept.
package gormstorage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/scorelect/drillboard/internal/cache"
	"github.com/scorelect/drillboard/internal/database"
	"github.com/scorelect/drillboard/internal/model"
	"github.com/scorelect/drillboard/internal/model/convert"
	"github.com/scorelect/drillboard/internal/storage"
	"github.com/scorelect/drillboard/pkg/core"
)

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB     *gorm.DB
	Cache  *cache.Documents
	Logger zerolog.Logger
}

// Backend stores one row per document.
type Backend struct {
	deps Dependencies
	now  func() time.Time
}

var _ storage.Backend = (*Backend)(nil)

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.Cache == nil {
		deps.Cache = cache.NewDocuments()
	}
	return &Backend{
		deps: deps,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// DB returns the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// Init migrates the schema.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return errors.New("gorm backend has no database")
	}
	if err := database.Migrate(b.deps.DB, b.deps.Logger); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}
	return nil
}

// Close drops the cache and closes the connection pool.
func (b *Backend) Close() error {
	b.deps.Cache.Reset()
	if b.deps.DB == nil {
		return nil
	}
	sqlDB, err := b.deps.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}

// Save upserts the document row.
func (b *Backend) Save(ctx context.Context, doc *core.Document) (string, error) {
	saved, err := storage.Prepare(doc, b.now())
	if err != nil {
		return "", err
	}
	db := b.deps.DB.WithContext(ctx)

	var prev model.DocumentRecord
	err = db.Select("created_at").Where("id = ?", saved.ID).First(&prev).Error
	switch {
	case err == nil:
		saved.CreatedAt = prev.CreatedAt
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return "", fmt.Errorf("failed to look up document %s: %w", saved.ID, err)
	}

	rec, err := convert.DocumentToRecord(saved)
	if err != nil {
		return "", err
	}
	if err := db.Save(&rec).Error; err != nil {
		b.deps.Logger.Error().Err(err).Str("id", saved.ID).Msg("Failed to save document")
		return "", fmt.Errorf("failed to save document: %w", err)
	}
	b.deps.Cache.Set(saved)
	b.deps.Logger.Debug().Str("id", saved.ID).Int("pages", rec.PageCount).Msg("Saved document")
	return saved.ID, nil
}

// Load returns the document with id, from cache when possible.
func (b *Backend) Load(ctx context.Context, id string) (*core.Document, error) {
	if doc, ok := b.deps.Cache.Get(id); ok {
		return doc, nil
	}

	var rec model.DocumentRecord
	err := b.deps.DB.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", id, err)
	}

	doc, err := convert.RecordToDocument(rec)
	if err != nil {
		return nil, err
	}
	b.deps.Cache.Set(doc)
	return doc, nil
}

// List returns summaries, most recently updated first.
func (b *Backend) List(ctx context.Context) ([]storage.Summary, error) {
	var recs []model.DocumentRecord
	err := b.deps.DB.WithContext(ctx).
		Select("id", "title", "sport", "orientation", "page_count", "object_count", "updated_at").
		Order("updated_at desc").Order("id").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	out := make([]storage.Summary, 0, len(recs))
	for _, r := range recs {
		o, err := core.ParseOrientation(r.Orientation)
		if err != nil {
			o = core.Landscape
		}
		out = append(out, storage.Summary{
			ID:          r.ID,
			Title:       r.Title,
			Sport:       core.ParseSport(r.Sport),
			Orientation: o,
			Pages:       r.PageCount,
			Objects:     r.ObjectCount,
			UpdatedAt:   r.UpdatedAt,
		})
	}
	return out, nil
}

// Delete removes the document row.
func (b *Backend) Delete(ctx context.Context, id string) error {
	b.deps.Cache.Delete(id)
	res := b.deps.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.DocumentRecord{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
