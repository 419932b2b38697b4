// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/scorelect/drillboard/internal/model"
	"github.com/scorelect/drillboard/pkg/core"
)

// DocumentToRecord converts a core.Document to its table row. Image handles
// are not part of the wire format and are dropped.
func DocumentToRecord(doc *core.Document) (model.DocumentRecord, error) {
	pages, err := json.Marshal(doc.Pages)
	if err != nil {
		return model.DocumentRecord{}, fmt.Errorf("encoding pages: %w", err)
	}
	objects := 0
	for _, p := range doc.Pages {
		objects += len(p.Objects)
	}
	return model.DocumentRecord{
		ID:          doc.ID,
		Title:       doc.Title,
		Description: doc.Description,
		Sport:       string(doc.Sport),
		Orientation: string(doc.Orientation),
		PageCount:   len(doc.Pages),
		ObjectCount: objects,
		Pages:       datatypes.JSON(pages),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}, nil
}

// RecordToDocument converts a table row back to a core.Document. Missing
// backgrounds, orientation and pages get their defaults.
func RecordToDocument(r model.DocumentRecord) (*core.Document, error) {
	var pages []*core.Page
	if len(r.Pages) > 0 {
		if err := json.Unmarshal(r.Pages, &pages); err != nil {
			return nil, fmt.Errorf("decoding pages of %s: %w", r.ID, err)
		}
		if err := core.ValidatePages(pages); err != nil {
			return nil, fmt.Errorf("decoding pages of %s: %w", r.ID, err)
		}
	}
	orientation, err := core.ParseOrientation(r.Orientation)
	if err != nil {
		orientation = core.Landscape
	}

	doc := core.NewDocument(r.Title, core.ParseSport(r.Sport), orientation)
	doc.ID = r.ID
	doc.Description = r.Description
	doc.CreatedAt = r.CreatedAt
	doc.UpdatedAt = r.UpdatedAt
	if len(pages) > 0 {
		doc.Pages = pages
	}
	for _, p := range doc.Pages {
		if p.BackgroundColor == "" {
			p.BackgroundColor = core.DefaultBackground
		}
		if p.Objects == nil {
			p.Objects = []*core.Object{}
		}
	}
	return doc, nil
}
