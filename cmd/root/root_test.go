package root

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finbridge/internal/camt"
	"finbridge/internal/config"
)

func TestRootCmd(t *testing.T) {
	assert.Equal(t, "finbridge", Cmd.Use)
	assert.NotNil(t, Cmd.Run)
	assert.NotNil(t, Cmd.PersistentPreRun)
}

func TestInitRegistersSharedFlags(t *testing.T) {
	Init()

	for name, shorthand := range map[string]string{
		"input":  "i",
		"output": "o",
		"to":     "t",
	} {
		flag := Cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, "flag %q", name)
		assert.Equal(t, shorthand, flag.Shorthand)
	}
}

func TestNewPipeline(t *testing.T) {
	pipeline, err := NewPipeline()
	require.NoError(t, err)
	assert.NotNil(t, pipeline)
}

func TestNewPipelineLoadsRegistryOverlay(t *testing.T) {
	overlay := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(overlay, []byte(`camt.056:
  payload_path: //FIToFIPmtCxlReq
  item_path: Undrlyg/TxInf
  item_fields:
    - name: cancellation_id
      path: CxlId
`), 0600))

	// Reload the configuration once the env var is gone again, so later
	// tests see the defaults.
	t.Cleanup(func() { require.NoError(t, config.InitializeGlobalConfig()) })
	t.Setenv("FINBRIDGE_CAMT_REGISTRY_FILE", overlay)
	require.NoError(t, config.InitializeGlobalConfig())

	pipeline, err := NewPipeline()
	require.NoError(t, err)

	cfg, err := pipeline.Registry().Lookup(camt.Camt056)
	require.NoError(t, err)
	require.Len(t, cfg.ItemFields, 1)
	assert.Equal(t, "cancellation_id", cfg.ItemFields[0].Name)
}

func TestNewPipelineRejectsMissingRegistryOverlay(t *testing.T) {
	t.Cleanup(func() { require.NoError(t, config.InitializeGlobalConfig()) })
	t.Setenv("FINBRIDGE_CAMT_REGISTRY_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, config.InitializeGlobalConfig())

	_, err := NewPipeline()
	assert.Error(t, err)
}
