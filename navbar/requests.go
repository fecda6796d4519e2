package navbar

import (
	"net/http"
	"strings"

	pandey "github.com/aagatsharma/pandey-computer"
	"github.com/aagatsharma/pandey-computer/catalog"
)

type itemRequest struct {
	Name      *string       `json:"name"`
	Type      *catalog.Kind `json:"type"`
	RefID     *uint         `json:"refId"`
	Level     *int          `json:"level"`
	ParentID  *uint         `json:"parentId"`
	SortOrder *int          `json:"sortOrder"`
	IsActive  *bool         `json:"isActive"`

	// ClearParent moves the item to the top level.
	ClearParent bool `json:"clearParent"`
}

func (req itemRequest) apply(n *NavbarItem) {
	if req.Name != nil {
		n.Name = strings.TrimSpace(*req.Name)
	}

	if req.Type != nil {
		n.Type = catalog.Kind(strings.TrimSpace(string(*req.Type)))
	}

	if req.RefID != nil {
		n.RefID = *req.RefID
	}

	if req.SortOrder != nil {
		n.SortOrder = *req.SortOrder
	}

	if req.IsActive != nil {
		n.IsActive = *req.IsActive
	}

	if req.ParentID != nil {
		parentID := *req.ParentID
		n.ParentID = &parentID
	}

	if req.ClearParent {
		n.ParentID = nil
	}
}

func newItem(r *http.Request) (*NavbarItem, error) {
	var req itemRequest
	if err := pandey.DecodeJSON(r, &req); err != nil {
		return nil, err
	}

	n := &NavbarItem{IsActive: true}
	req.apply(n)

	if req.Level != nil {
		n.Level = *req.Level
	}

	return n, nil
}

// updateItem ignores level; it follows from the parent.
func updateItem(r *http.Request, existing *NavbarItem) (*NavbarItem, error) {
	var req itemRequest
	if err := pandey.DecodeJSON(r, &req); err != nil {
		return nil, err
	}

	n := existing.clone()
	req.apply(n)

	return n, nil
}

func listQuery(r *http.Request, query pandey.ListQuery, admin bool) (pandey.ListQuery, error) {
	level, err := pandey.QueryUint(r, "level")
	if err != nil {
		return query, err
	}

	if level != nil {
		query.Scopes = append(query.Scopes, pandey.Where("level = ?", *level))
	}

	parentID, err := pandey.QueryUint(r, "parentId")
	if err != nil {
		return query, err
	}

	if parentID != nil {
		query.Scopes = append(query.Scopes, pandey.Where("parent_id = ?", *parentID))
	}

	if kind := catalog.Kind(strings.TrimSpace(r.URL.Query().Get("type"))); kind != "" {
		if !kind.Valid() {
			return query, pandey.Invalid("type", "must be one of category, brand, sub_category, sub_brand")
		}
		query.Scopes = append(query.Scopes, pandey.Where("type = ?", kind))
	}

	return query, nil
}
