// Package theme supplies the visual tokens the shell consumes: spacing,
// elevation, opacity, and default overlay geometry. The shell treats every
// value as an opaque number; it never computes style itself.
package theme

import (
	"github.com/odvcencio/shellkit/pkg/ui/backend"
)

// Tokens are the numeric layout inputs consumed by the shell composer.
type Tokens struct {
	// Spacing scale, in cells.
	SpacingXS int
	SpacingSM int
	SpacingMD int
	SpacingLG int

	// Region defaults.
	HeaderHeight int
	StatusHeight int
	SidebarWidth int // default sidebar width at the widest tier

	// Overlay defaults.
	DrawerWidth     int     // default drawer width
	PopoverMaxWidth int
	ModalMaxWidth   int
	ModalMaxHeight  int
	BackdropOpacity float64 // dimming under a blocking modal, [0, 1]
	ToastWidth      int
	ToastOffset     int // vertical offset between stacked toasts
}

// Theme bundles tokens with the style palette used by the demo renderer.
type Theme struct {
	Tokens Tokens

	Background  backend.Style
	Surface     backend.Style
	TextPrimary backend.Style
	TextMuted   backend.Style
	Accent      backend.Style
	Border      backend.Style
	BorderFocus backend.Style
	Backdrop    backend.Style
	ToastInfo   backend.Style
	ToastError  backend.Style
}

// DefaultTheme returns the standard dark theme.
func DefaultTheme() *Theme {
	return &Theme{
		Tokens: DefaultTokens(),

		Background:  backend.DefaultStyle().Background(backend.ColorRGB(12, 12, 16)),
		Surface:     backend.DefaultStyle().Background(backend.ColorRGB(22, 22, 28)),
		TextPrimary: backend.DefaultStyle().Foreground(backend.ColorRGB(240, 238, 232)),
		TextMuted:   backend.DefaultStyle().Foreground(backend.ColorRGB(100, 98, 92)),
		Accent:      backend.DefaultStyle().Foreground(backend.ColorRGB(255, 183, 77)),
		Border:      backend.DefaultStyle().Foreground(backend.ColorRGB(50, 50, 60)),
		BorderFocus: backend.DefaultStyle().Foreground(backend.ColorRGB(255, 183, 77)),
		Backdrop:    backend.DefaultStyle().Dim(true),
		ToastInfo:   backend.DefaultStyle().Foreground(backend.ColorRGB(77, 182, 172)),
		ToastError:  backend.DefaultStyle().Foreground(backend.ColorRGB(255, 110, 90)),
	}
}

// DefaultTokens returns the standard token set.
func DefaultTokens() Tokens {
	return Tokens{
		SpacingXS: 1,
		SpacingSM: 2,
		SpacingMD: 3,
		SpacingLG: 4,

		HeaderHeight: 1,
		StatusHeight: 1,
		SidebarWidth: 28,

		DrawerWidth:     32,
		PopoverMaxWidth: 40,
		ModalMaxWidth:   60,
		ModalMaxHeight:  18,
		BackdropOpacity: 0.8,
		ToastWidth:      36,
		ToastOffset:     1,
	}
}

// ClampOpacity restricts an opacity token to [0, 1].
func ClampOpacity(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
