package models

import "time"

// CatalogItemType enumerates reference data kinds.
type CatalogItemType string

const (
	CatalogProgram   CatalogItemType = "program"
	CatalogDirection CatalogItemType = "direction"
	CatalogSubject   CatalogItemType = "subject"
	CatalogTrack     CatalogItemType = "track"
	CatalogRegion    CatalogItemType = "region"
	CatalogOther     CatalogItemType = "other"
)

// Valid reports whether the type is one of the known catalog kinds.
func (t CatalogItemType) Valid() bool {
	switch t {
	case CatalogProgram, CatalogDirection, CatalogSubject, CatalogTrack, CatalogRegion, CatalogOther:
		return true
	}
	return false
}

// CatalogItem is a typed, coded reference entity.
type CatalogItem struct {
	ID        string          `db:"id" json:"id"`
	Type      CatalogItemType `db:"type" json:"type"`
	Code      *string         `db:"code" json:"code,omitempty"`
	Name      string          `db:"name" json:"name"`
	NameUz    string          `db:"name_uz" json:"name_uz"`
	NameRu    string          `db:"name_ru" json:"name_ru"`
	NameEn    string          `db:"name_en" json:"name_en"`
	ParentID  *string         `db:"parent_id" json:"parent_id,omitempty"`
	IsActive  bool            `db:"is_active" json:"is_active"`
	SortOrder int             `db:"sort_order" json:"sort_order"`
	Metadata  JSONMap         `db:"metadata" json:"metadata"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// IsProgramLike reports whether the item can anchor a roster entry.
func (c *CatalogItem) IsProgramLike() bool {
	return c != nil && (c.Type == CatalogProgram || c.Type == CatalogDirection)
}

// CatalogFilter narrows catalog listings. Level and Track match program metadata.
type CatalogFilter struct {
	Type   CatalogItemType
	Active *bool
	Search string
	Level  string
	Track  string
}
