package navbar

import (
	"slices"
	"sort"
	"strings"

	"github.com/aagatsharma/pandey-computer/catalog"
)

// forest indexes a full snapshot of the navbar table. Traversal follows
// ParentID; Children arrays are rewritten from it.
type forest struct {
	items    map[uint]*NavbarItem
	children map[uint][]uint
}

func newForest(items []*NavbarItem) *forest {
	f := &forest{
		items:    make(map[uint]*NavbarItem, len(items)),
		children: make(map[uint][]uint),
	}

	for _, item := range items {
		f.items[item.ID] = item
	}

	for _, item := range items {
		if item.ParentID != nil {
			f.children[*item.ParentID] = append(f.children[*item.ParentID], item.ID)
		}
	}

	return f
}

func (f *forest) get(id uint) (*NavbarItem, bool) {
	item, ok := f.items[id]
	return item, ok
}

// descendants lists every item below id, breadth first.
func (f *forest) descendants(id uint) []uint {
	var out []uint

	queue := append([]uint{}, f.children[id]...)
	seen := map[uint]bool{id: true}

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		if seen[next] {
			continue
		}
		seen[next] = true

		out = append(out, next)
		queue = append(queue, f.children[next]...)
	}

	return out
}

func (f *forest) isDescendant(ancestor, id uint) bool {
	return slices.Contains(f.descendants(ancestor), id)
}

// height is how many levels sit below id. A leaf has height 0.
func (f *forest) height(id uint) int {
	h := 0
	for _, child := range f.children[id] {
		if ch := f.height(child) + 1; ch > h {
			h = ch
		}
	}

	return h
}

// duplicate reports whether another item under parentID already points at
// the same catalog document.
func (f *forest) duplicate(kind catalog.Kind, refID uint, parentID *uint, exceptID uint) bool {
	for _, item := range f.items {
		if item.ID == exceptID || item.Type != kind || item.RefID != refID {
			continue
		}

		if sameParent(item.ParentID, parentID) {
			return true
		}
	}

	return false
}

func sameParent(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return *a == *b
}

func appendChild(parent *NavbarItem, id uint) {
	if !slices.Contains(parent.Children, id) {
		parent.Children = append(parent.Children, id)
	}
}

func removeChild(parent *NavbarItem, id uint) {
	parent.Children = slices.DeleteFunc(parent.Children, func(c uint) bool { return c == id })
}

// buildTree nests active items under active parents. Items whose parent is
// hidden are dropped along with their subtree.
func buildTree(items []*NavbarItem, slugs map[uint]string) []*TreeNode {
	byParent := map[uint][]*NavbarItem{}
	var roots []*NavbarItem

	for _, item := range items {
		if !item.IsActive {
			continue
		}

		if _, ok := slugs[item.ID]; !ok {
			continue
		}

		if item.ParentID == nil {
			roots = append(roots, item)
		} else {
			byParent[*item.ParentID] = append(byParent[*item.ParentID], item)
		}
	}

	var build func(level []*NavbarItem) []*TreeNode
	build = func(level []*NavbarItem) []*TreeNode {
		sortItems(level)

		nodes := make([]*TreeNode, 0, len(level))
		for _, item := range level {
			nodes = append(nodes, &TreeNode{
				ID:        item.ID,
				Name:      item.Name,
				Type:      item.Type,
				RefID:     item.RefID,
				Slug:      slugs[item.ID],
				Level:     item.Level,
				SortOrder: item.SortOrder,
				Children:  build(byParent[item.ID]),
			})
		}

		return nodes
	}

	return build(roots)
}

func sortItems(items []*NavbarItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].SortOrder != items[j].SortOrder {
			return items[i].SortOrder < items[j].SortOrder
		}

		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
}
