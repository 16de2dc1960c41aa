package batch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finbridge/internal/convert"
)

const mt940Sample = `:20:STMT-1
:25:DE89370400440532013000
:28C:1/1
:60F:C250115EUR1000,00
:61:2501150115D200,00NTRFNONREF
:86:RENT JANUARY
:62F:C250115EUR800,00
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestProcessDirectory(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "out")
	writeFile(t, inputDir, "january.sta", mt940Sample)
	writeFile(t, inputDir, "notes.txt", "not a statement at all")
	writeFile(t, inputDir, "broken.sta", ":20:ONLY-A-REFERENCE\n:99:BAD\n")

	p := NewProcessor(convert.NewPipeline(convert.Options{}), nil)
	summary, err := p.ProcessDirectory(inputDir, outputDir, "camt")
	require.NoError(t, err)

	require.Len(t, summary.Converted, 1)
	result := summary.Converted[0]
	assert.Equal(t, convert.FormatMT940, result.Source)
	assert.Equal(t, 1, result.Transactions)
	assert.Equal(t, filepath.Join(outputDir, "january.xml"), result.Output)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), result.Period.Start)

	data, err := os.ReadFile(result.Output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "urn:iso:std:iso:20022:tech:xsd:camt.053")

	require.Len(t, summary.Skipped, 1)
	assert.Contains(t, summary.Skipped[0], "notes.txt")

	require.Len(t, summary.Failed, 1)
	assert.Contains(t, summary.Failed[0].Input, "broken.sta")
}

func TestProcessDirectoryCSVTarget(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeFile(t, inputDir, "january.sta", mt940Sample)

	p := NewProcessor(convert.NewPipeline(convert.Options{}), nil)
	summary, err := p.ProcessDirectory(inputDir, outputDir, "csv")
	require.NoError(t, err)

	require.Len(t, summary.Converted, 1)
	data, err := os.ReadFile(filepath.Join(outputDir, "january.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "RENT JANUARY")
}

func TestProcessDirectoryRejectsBadTarget(t *testing.T) {
	p := NewProcessor(convert.NewPipeline(convert.Options{}), nil)
	_, err := p.ProcessDirectory(t.TempDir(), t.TempDir(), "pdf")
	assert.Error(t, err)
}

func TestProcessDirectoryMissingInput(t *testing.T) {
	p := NewProcessor(convert.NewPipeline(convert.Options{}), nil)
	_, err := p.ProcessDirectory(filepath.Join(t.TempDir(), "nope"), t.TempDir(), "csv")
	assert.Error(t, err)
}

func TestDateRangeMerge(t *testing.T) {
	jan := DateRange{Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)}
	feb := DateRange{Start: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)}

	merged := jan.Merge(feb)
	assert.Equal(t, "2025-01-01_2025-02-28", merged.String())

	assert.Equal(t, feb, DateRange{}.Merge(feb))
	assert.Empty(t, DateRange{}.String())
}
