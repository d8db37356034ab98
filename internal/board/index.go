package board

import (
	"github.com/dhconnelly/rtreego"

	"pcb-copper/pkg/geometry"
)

// spatialEntry adapts an Item to the R-tree's Spatial interface.
type spatialEntry struct {
	item Item
	rect rtreego.Rect
}

func (e *spatialEntry) Bounds() rtreego.Rect { return e.rect }

func toRect(b geometry.Box) rtreego.Rect {
	w := float64(b.Width())
	h := float64(b.Height())
	// Degenerate extents break R-tree invariants; clamp to one unit.
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	r, err := rtreego.NewRect(rtreego.Point{float64(b.MinX), float64(b.MinY)}, []float64{w, h})
	if err != nil {
		panic("board: invalid index rect: " + err.Error())
	}
	return r
}

// Index is an R-tree over copper items, used to prune candidate pairs by
// inflated bounding boxes before any exact shape test.
type Index struct {
	tree *rtreego.Rtree
}

// NewIndex builds a spatial index over the given items.
func NewIndex(items []Item) *Index {
	tree := rtreego.NewTree(2, 4, 16)
	for _, it := range items {
		tree.Insert(&spatialEntry{item: it, rect: toRect(it.BBox())})
	}
	return &Index{tree: tree}
}

// Search returns all items whose bounding boxes intersect the query box.
func (ix *Index) Search(b geometry.Box) []Item {
	hits := ix.tree.SearchIntersect(toRect(b))
	out := make([]Item, len(hits))
	for i, h := range hits {
		out[i] = h.(*spatialEntry).item
	}
	return out
}

// Index builds a fresh spatial index over all copper items of the board.
func (b *Board) Index() *Index {
	return NewIndex(b.AllCopperItems())
}
