package camt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finbridge/internal/parsererror"
)

func TestRegistryLifecycle(t *testing.T) {
	reg := NewRegistry()
	assert.False(t, reg.IsInitialized())

	_, err := reg.Lookup(Camt053)
	var cfgErr *parsererror.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Error(), "camt.053")

	reg.Initialize()
	assert.True(t, reg.IsInitialized())

	cfg, err := reg.Lookup(Camt053)
	require.NoError(t, err)
	assert.Equal(t, "//BkToCstmrStmt/Stmt", cfg.PayloadPath)
	assert.Equal(t, "Ntry", cfg.ItemPath)

	reg.Reset()
	assert.False(t, reg.IsInitialized())
	_, err = reg.Lookup(Camt053)
	assert.Error(t, err)
}

func TestRegistryInitializeIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	reg.Initialize()

	custom := ExtractionConfig{PayloadPath: "//Custom"}
	reg.Register(Camt060, custom)

	// A second Initialize must not clobber later registrations.
	reg.Initialize()
	cfg, err := reg.Lookup(Camt060)
	require.NoError(t, err)
	assert.Equal(t, "//Custom", cfg.PayloadPath)
}

func TestRegistryCoversAllBuiltinTypes(t *testing.T) {
	reg := NewRegistry()
	reg.Initialize()
	for _, msgType := range []Type{Camt052, Camt053, Camt054, Camt029, Camt055, Camt056, Camt060, Camt086} {
		_, err := reg.Lookup(msgType)
		assert.NoError(t, err, msgType.String())
	}
}

func TestRegistryLoadYAMLOverlay(t *testing.T) {
	overlay := `
camt.055:
  payload_path: //CstmrPmtCxlReq
  item_path: Undrlyg/OrgnlPmtInfAndCxl/TxInf
  fields:
    - name: assignment_id
      path: Assgnmt/Id
  item_fields:
    - name: cancellation_id
      path: CxlId
    - name: extra_reason
      path: CxlRsnInf/AddtlInf
`
	reg := NewRegistry()
	reg.Initialize()
	require.NoError(t, reg.LoadYAML([]byte(overlay)))

	cfg, err := reg.Lookup(Camt055)
	require.NoError(t, err)
	require.Len(t, cfg.ItemFields, 2)
	assert.Equal(t, "extra_reason", cfg.ItemFields[1].Name)

	// Other registrations stay untouched.
	cfg, err = reg.Lookup(Camt056)
	require.NoError(t, err)
	assert.Equal(t, "//FIToFIPmtCxlReq", cfg.PayloadPath)
}

func TestRegistryLoadYAMLRejectsUnknownType(t *testing.T) {
	reg := NewRegistry()
	err := reg.LoadYAML([]byte("camt.099:\n  payload_path: //Nowhere\n"))
	var unknownErr *parsererror.UnknownFormatError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "camt.099", unknownErr.Token)
}

func TestRegistryLoadYAMLRejectsMalformedDocument(t *testing.T) {
	reg := NewRegistry()
	assert.Error(t, reg.LoadYAML([]byte("camt.053: [unterminated")))
}
