package main

import (
	"fmt"

	"github.com/odvcencio/shellkit/pkg/ui/geometry"
	"github.com/odvcencio/shellkit/pkg/ui/overlay"
	"github.com/odvcencio/shellkit/pkg/ui/runtime"
	"github.com/odvcencio/shellkit/pkg/ui/shell"
	"github.com/odvcencio/shellkit/pkg/ui/theme"
)

// demoRenderer paints the composed tree: filled regions with labels, boxed
// overlays, and a dim backdrop under a blocking modal.
type demoRenderer struct {
	theme *theme.Theme
}

func (r *demoRenderer) Render(tree *shell.Tree, buf *runtime.Buffer) {
	buf.Fill(boundsOf(tree), ' ', r.theme.Background)

	for _, region := range tree.Regions {
		if !region.Visible || region.Bounds.Empty() {
			continue
		}
		r.renderRegion(tree, region, buf)
	}

	for _, node := range tree.Overlays {
		if node.Backdrop {
			buf.Dim(boundsOf(tree), r.theme.Backdrop)
		}
		r.renderOverlay(node, buf)
	}
}

func (r *demoRenderer) renderRegion(tree *shell.Tree, region shell.RegionNode, buf *runtime.Buffer) {
	sub := buf.Sub(region.Bounds)
	switch region.ID {
	case shell.RegionHeader:
		sub.Fill(rect(region.Bounds.Width, region.Bounds.Height), ' ', r.theme.Surface)
		sub.SetString(1, 0, "shellkit", r.theme.Accent)
		sub.SetString(12, 0, fmt.Sprintf("tier:%s", tree.Tier), r.theme.TextMuted)

	case shell.RegionSidebar:
		sub.Fill(rect(region.Bounds.Width, region.Bounds.Height), ' ', r.theme.Surface)
		for i, item := range []string{"Inbox", "Projects", "Settings"} {
			sub.SetString(1, 1+i*2, item, r.theme.TextPrimary)
		}
		for y := 0; y < region.Bounds.Height; y++ {
			sub.Set(region.Bounds.Width-1, y, '│', r.theme.Border)
		}

	case shell.RegionMain:
		if text, ok := region.Content.(string); ok {
			sub.SetString(2, 1, text, r.theme.TextPrimary)
		}
		sub.SetString(2, 3, "drag the sidebar divider; esc cancels", r.theme.TextMuted)

	case shell.RegionStatus:
		sub.Fill(rect(region.Bounds.Width, region.Bounds.Height), ' ', r.theme.Surface)
		sub.SetString(1, 0, "b:sidebar  d:drawer  m:modal  t:toast  q:quit", r.theme.TextMuted)
	}

	if region.Inert {
		buf.Dim(region.Bounds, r.theme.Backdrop)
	}
}

func (r *demoRenderer) renderOverlay(node shell.OverlayNode, buf *runtime.Buffer) {
	style := r.theme.Surface
	border := r.theme.Border
	if !node.Inert {
		border = r.theme.BorderFocus
	}

	buf.Fill(node.Bounds, ' ', style)
	switch node.Kind {
	case overlay.KindToast:
		buf.DrawRoundedBox(node.Bounds, r.theme.ToastInfo)
	default:
		buf.DrawBox(node.Bounds, border)
	}

	if text, ok := node.Content.(string); ok {
		buf.SetString(node.Bounds.X+2, node.Bounds.Y+1, text, r.theme.TextPrimary)
	}
	if node.Inert {
		buf.Dim(node.Bounds, r.theme.Backdrop)
	}
}

func boundsOf(tree *shell.Tree) geometry.Rect {
	return geometry.Rect{Width: tree.Size.Width, Height: tree.Size.Height}
}

func rect(w, h int) geometry.Rect {
	return geometry.Rect{Width: w, Height: h}
}
