package shell

import (
	"github.com/odvcencio/shellkit/pkg/ui/breakpoint"
	"github.com/odvcencio/shellkit/pkg/ui/geometry"
	"github.com/odvcencio/shellkit/pkg/ui/overlay"
	"github.com/odvcencio/shellkit/pkg/ui/responsive"
	"github.com/odvcencio/shellkit/pkg/ui/theme"
)

const toastHeight = 3

// Narrow windows give drawers the full content width; from sm up they
// stay a fixed-width strip.
var drawerFullWidth = responsive.NewValue(true).At(breakpoint.TierSM, false)

// Compose projects the current state into a render tree. It mutates
// nothing except overlay bounds, which are written back so pointer hit
// tests and the renderer agree on geometry.
func (s *Shell) Compose() *Tree {
	tokens := s.theme.Tokens
	vis := responsive.Evaluate(s.tier, s.rules)
	visible := func(id RegionID) bool {
		v, ok := vis[string(id)]
		return !ok || v
	}

	tree := &Tree{
		Size:       geometry.Size{Width: s.width, Height: s.height},
		Tier:       s.tier,
		FocusScope: s.overlays.ActiveFocusScope(),
	}
	baseInert := s.overlays.BaseInert()

	headerH := 0
	if visible(RegionHeader) {
		headerH = tokens.HeaderHeight
	}
	statusH := 0
	if visible(RegionStatus) {
		statusH = tokens.StatusHeight
	}
	midTop := headerH
	midH := s.height - headerH - statusH
	if midH < 0 {
		midH = 0
	}

	sidebarW := 0
	sidebarVisible := visible(RegionSidebar) && !s.collapsed
	if sidebarVisible {
		sidebarW = s.splits.Get(SidebarSplitID).FirstExtent(s.width)
		if sidebarW > s.width {
			sidebarW = s.width
		}
	}

	tree.Regions = []RegionNode{
		{
			ID:      RegionHeader,
			Bounds:  geometry.Rect{X: 0, Y: 0, Width: s.width, Height: headerH},
			Visible: headerH > 0,
			Inert:   baseInert,
			Content: s.content[RegionHeader],
		},
		{
			ID:      RegionSidebar,
			Bounds:  geometry.Rect{X: 0, Y: midTop, Width: sidebarW, Height: midH},
			Visible: sidebarVisible,
			Inert:   baseInert,
			Content: s.content[RegionSidebar],
		},
		{
			ID:      RegionMain,
			Bounds:  geometry.Rect{X: sidebarW, Y: midTop, Width: s.width - sidebarW, Height: midH},
			Visible: true,
			Inert:   baseInert,
			Content: s.content[RegionMain],
		},
		{
			ID:      RegionStatus,
			Bounds:  geometry.Rect{X: 0, Y: s.height - statusH, Width: s.width, Height: statusH},
			Visible: statusH > 0,
			Inert:   baseInert,
			Content: s.content[RegionStatus],
		},
	}

	middle := geometry.Rect{X: 0, Y: midTop, Width: s.width, Height: midH}
	layers := s.overlays.Layers()

	// The topmost blocking modal carries the backdrop.
	backdropID := ""
	for i := len(layers) - 1; i >= 0; i-- {
		if layers[i].Kind == overlay.KindModal && layers[i].Blocking {
			backdropID = layers[i].ID
			break
		}
	}

	toastIdx := 0
	for _, l := range layers {
		bounds := s.overlayBounds(l, middle, &toastIdx)
		l.Bounds = bounds // hit tests use composed geometry

		tree.Overlays = append(tree.Overlays, OverlayNode{
			ID:              l.ID,
			Kind:            l.Kind,
			ZIndex:          l.ZIndex(),
			Bounds:          bounds,
			Inert:           s.overlays.Inert(l.ID),
			Backdrop:        l.ID == backdropID,
			BackdropOpacity: theme.ClampOpacity(tokens.BackdropOpacity),
			Content:         l.Content,
		})
	}

	return tree
}

func (s *Shell) overlayBounds(l *overlay.Layer, middle geometry.Rect, toastIdx *int) geometry.Rect {
	tokens := s.theme.Tokens
	switch l.Kind {
	case overlay.KindChrome:
		if !l.Bounds.Empty() {
			return l.Bounds
		}
		return geometry.Rect{X: 0, Y: 0, Width: s.width, Height: s.height}

	case overlay.KindDrawer:
		w := tokens.DrawerWidth
		if drawerFullWidth.Get(s.tier) || w > middle.Width {
			w = middle.Width
		}
		return geometry.Rect{
			X:      middle.X + middle.Width - w,
			Y:      middle.Y,
			Width:  w,
			Height: middle.Height,
		}

	case overlay.KindPopover:
		if !l.Bounds.Empty() {
			return clampToScreen(l.Bounds, s.width, s.height)
		}
		w := min(tokens.PopoverMaxWidth, s.width-2)
		h := min(7, s.height-2)
		return centered(w, h, s.width, s.height)

	case overlay.KindModal:
		w := min(tokens.ModalMaxWidth, s.width-2*tokens.SpacingSM)
		h := min(tokens.ModalMaxHeight, s.height-2*tokens.SpacingSM)
		return centered(w, h, s.width, s.height)

	case overlay.KindToast:
		w := min(tokens.ToastWidth, s.width)
		i := *toastIdx
		*toastIdx++
		return geometry.Rect{
			X:      s.width - w - tokens.SpacingXS,
			Y:      middle.Y + i*(toastHeight+tokens.ToastOffset),
			Width:  w,
			Height: toastHeight,
		}

	default:
		return l.Bounds
	}
}

func centered(w, h, screenW, screenH int) geometry.Rect {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return geometry.Rect{
		X:      (screenW - w) / 2,
		Y:      (screenH - h) / 2,
		Width:  w,
		Height: h,
	}
}

func clampToScreen(r geometry.Rect, screenW, screenH int) geometry.Rect {
	if r.X+r.Width > screenW {
		r.X = screenW - r.Width
	}
	if r.Y+r.Height > screenH {
		r.Y = screenH - r.Height
	}
	if r.X < 0 {
		r.X = 0
	}
	if r.Y < 0 {
		r.Y = 0
	}
	return r
}
