package navbar

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
	"gorm.io/datatypes"

	"github.com/aagatsharma/pandey-computer/catalog"
)

const (
	MinLevel = 1
	MaxLevel = 3
)

// NavbarItem is one entry of the storefront navigation menu. Children mirrors
// the ids of the items whose ParentID points here.
type NavbarItem struct {
	ID        uint                      `gorm:"primaryKey"`
	Name      string                    `gorm:"not null"`
	Type      catalog.Kind              `gorm:"type:varchar(20);not null;index:idx_navbar_items_ref"`
	RefID     uint                      `gorm:"not null;index:idx_navbar_items_ref"`
	Level     int                       `gorm:"not null;index"`
	ParentID  *uint                     `gorm:"index"`
	Children  datatypes.JSONSlice[uint] `gorm:"type:jsonb"`
	SortOrder int                       `gorm:"not null"`
	IsActive  bool                      `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (n *NavbarItem) GetID() uint { return n.ID }

func (n *NavbarItem) ToDTO() render.Renderer {
	children := make([]uint, len(n.Children))
	copy(children, n.Children)

	return &NavbarItemDTO{
		ID:        n.ID,
		Name:      n.Name,
		Type:      n.Type,
		RefID:     n.RefID,
		Level:     n.Level,
		ParentID:  n.ParentID,
		Children:  children,
		SortOrder: n.SortOrder,
		IsActive:  n.IsActive,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

type NavbarItemDTO struct {
	ID        uint         `json:"id"`
	Name      string       `json:"name"`
	Type      catalog.Kind `json:"type"`
	RefID     uint         `json:"refId"`
	Level     int          `json:"level"`
	ParentID  *uint        `json:"parentId"`
	Children  []uint       `json:"children"`
	SortOrder int          `json:"sortOrder"`
	IsActive  bool         `json:"isActive"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func (dto *NavbarItemDTO) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// TreeNode is a navbar item as the storefront renders it.
type TreeNode struct {
	ID        uint         `json:"id"`
	Name      string       `json:"name"`
	Type      catalog.Kind `json:"type"`
	RefID     uint         `json:"refId"`
	Slug      string       `json:"slug"`
	Level     int          `json:"level"`
	SortOrder int          `json:"sortOrder"`
	Children  []*TreeNode  `json:"children"`
}

type TreeResponse struct {
	Items []*TreeNode `json:"items"`
}

func (res *TreeResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (n *NavbarItem) clone() *NavbarItem {
	c := *n
	c.Children = append(datatypes.JSONSlice[uint]{}, n.Children...)

	if n.ParentID != nil {
		parentID := *n.ParentID
		c.ParentID = &parentID
	}

	return &c
}
