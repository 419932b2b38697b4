package model

import (
	"time"

	"gorm.io/datatypes"
)

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&DocumentRecord{},
}

// DocumentRecord is one saved session. Pages, with every object in z-order,
// are kept as a JSON column in the flat wire format.
type DocumentRecord struct {
	ID          string         `json:"id" gorm:"primaryKey;size:64"`
	Title       string         `json:"title" gorm:"size:255;index"`
	Description string         `json:"description"`
	Sport       string         `json:"sport" gorm:"size:32"`
	Orientation string         `json:"orientation" gorm:"size:16"`
	PageCount   int            `json:"pageCount"`
	ObjectCount int            `json:"objectCount"`
	Pages       datatypes.JSON `json:"pages"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt" gorm:"index"`
}

func (*DocumentRecord) TableName() string {
	return "documents"
}
