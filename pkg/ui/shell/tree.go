package shell

import (
	"github.com/odvcencio/shellkit/pkg/ui/breakpoint"
	"github.com/odvcencio/shellkit/pkg/ui/geometry"
	"github.com/odvcencio/shellkit/pkg/ui/overlay"
)

// RegionID names one of the shell's layout regions.
type RegionID string

const (
	RegionHeader  RegionID = "header"
	RegionSidebar RegionID = "sidebar"
	RegionMain    RegionID = "main"
	RegionStatus  RegionID = "status"
)

// RegionNode is one laid-out region in the composed tree.
type RegionNode struct {
	ID      RegionID
	Bounds  geometry.Rect
	Visible bool
	// Inert regions render dimmed and receive no input (blocking modal
	// above them).
	Inert   bool
	Content any
}

// OverlayNode is one overlay layer in the composed tree, bottom to top.
type OverlayNode struct {
	ID     string
	Kind   overlay.Kind
	ZIndex int
	Bounds geometry.Rect
	Inert  bool
	// Backdrop asks the renderer to dim everything beneath this layer.
	Backdrop        bool
	BackdropOpacity float64
	Content         any
}

// Tree is the single composed output handed to the host renderer:
// regions in paint order, then overlays bottom to top.
type Tree struct {
	Size     geometry.Size
	Tier     breakpoint.Tier
	Regions  []RegionNode
	Overlays []OverlayNode
	// FocusScope is the id of the overlay owning the focus trap,
	// "" when base content owns focus.
	FocusScope string
}

// Region returns the node for a region id, or nil.
func (t *Tree) Region(id RegionID) *RegionNode {
	for i := range t.Regions {
		if t.Regions[i].ID == id {
			return &t.Regions[i]
		}
	}
	return nil
}

// Overlay returns the node for an overlay id, or nil.
func (t *Tree) Overlay(id string) *OverlayNode {
	for i := range t.Overlays {
		if t.Overlays[i].ID == id {
			return &t.Overlays[i]
		}
	}
	return nil
}
