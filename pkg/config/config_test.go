package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/shellkit/pkg/config"
	"github.com/odvcencio/shellkit/pkg/ui/breakpoint"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.22, cfg.Sidebar.Ratio)
	assert.True(t, cfg.Overlays.LightDismiss)
	assert.Equal(t, breakpoint.TierMD, cfg.SidebarMinTier())

	thresholds, err := cfg.Thresholds()
	require.NoError(t, err)
	assert.Equal(t, breakpoint.Standard(), thresholds)
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Sidebar, cfg.Sidebar)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
breakpoints:
  preset: compact
sidebar:
  ratio: 0.3
  min_ratio: 0.1
  max_ratio: 0.6
  min_tier: lg
overlays:
  stackable_modals: true
  max_toasts: 3
  toast_ttl: 2s
tick_rate: 100ms
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	thresholds, err := cfg.Thresholds()
	require.NoError(t, err)
	assert.Equal(t, breakpoint.Compact(), thresholds)
	assert.Equal(t, 0.3, cfg.Sidebar.Ratio)
	assert.Equal(t, breakpoint.TierLG, cfg.SidebarMinTier())
	assert.True(t, cfg.Overlays.StackableModals)
	assert.Equal(t, 3, cfg.Overlays.MaxToasts)
	assert.Equal(t, 2*time.Second, cfg.Overlays.ToastTTL.Std())
	assert.Equal(t, 100*time.Millisecond, cfg.TickRate.Std())
}

func TestLoad_CustomThresholdsBeatPreset(t *testing.T) {
	path := writeConfig(t, `
breakpoints:
  preset: compact
  thresholds:
    - {tier: xs, min_width: 0}
    - {tier: sm, min_width: 50}
    - {tier: md, min_width: 90}
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	thresholds, err := cfg.Thresholds()
	require.NoError(t, err)
	require.Len(t, thresholds, 3)
	assert.Equal(t, 90, thresholds[2].MinWidth)
}

func TestLoad_RejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"malformed yaml":  "breakpoints: [",
		"unknown preset":  "breakpoints:\n  preset: enormous\n",
		"unknown tier":    "breakpoints:\n  thresholds:\n    - {tier: xxl, min_width: 10}\n",
		"bad ratio order": "sidebar:\n  min_ratio: 0.9\n  max_ratio: 0.2\n",
		"bad min tier":    "sidebar:\n  min_tier: gigantic\n",
		"negative toasts": "overlays:\n  max_toasts: -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadDefault_UsesEnvOverride(t *testing.T) {
	path := writeConfig(t, "sidebar:\n  ratio: 0.4\n")
	t.Setenv("SHELLKIT_CONFIG", path)

	cfg, err := config.LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, 0.4, cfg.Sidebar.Ratio)
}
