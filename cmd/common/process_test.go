package common

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finbridge/internal/convert"
)

const sampleMT940 = `:20:STMT-1
:25:DE89370400440532013000
:28C:1/1
:60F:C250115EUR1000,00
:61:2501150115D200,00NTRFNONREF
:86:RENT JANUARY
:62F:C250115EUR800,00
`

func TestConvertTextToCamt(t *testing.T) {
	p := convert.NewPipeline(convert.Options{})

	out, err := ConvertText(p, sampleMT940, "camt")
	require.NoError(t, err)
	assert.Contains(t, out, "urn:iso:std:iso:20022:tech:xsd:camt.053.001.12")
	assert.Contains(t, out, ">200.00</Amt>")
}

func TestConvertTextToCSV(t *testing.T) {
	p := convert.NewPipeline(convert.Options{})

	out, err := ConvertText(p, sampleMT940, TargetCSV)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "AccountID,"))
	assert.Contains(t, out, "RENT JANUARY")
}

func TestConvertTextRejectsUnknownTarget(t *testing.T) {
	p := convert.NewPipeline(convert.Options{})

	_, err := ConvertText(p, sampleMT940, "pdf")
	assert.Error(t, err)
}

func TestProcessFileWritesOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "statement.sta")
	output := filepath.Join(dir, "statement.csv")
	require.NoError(t, os.WriteFile(input, []byte(sampleMT940), 0600))

	p := convert.NewPipeline(convert.Options{})
	require.NoError(t, ProcessFile(p, input, output, TargetCSV, nil))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "RENT JANUARY")
}

func TestProcessFileMissingInput(t *testing.T) {
	p := convert.NewPipeline(convert.Options{})
	err := ProcessFile(p, filepath.Join(t.TempDir(), "absent.sta"), "", TargetCSV, nil)
	assert.Error(t, err)
}
