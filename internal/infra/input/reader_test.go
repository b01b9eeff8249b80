package input

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const csvHeader = "Invoice Number,Carrier,Paycode,LI Post,Group,Rej Code 1,Remark 1,Rej Code 2,Remark 2\n"

func TestParseFileValidRow(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "rejections_08_29_2025.csv",
		csvHeader+"123456789,medicare,42,Y,3,CO-45,N130,,\n")

	recs, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, int64(123456789), rec.InvoiceNumber)
	assert.Equal(t, "rejections_08_29_2025.csv", rec.FileName)
	assert.Equal(t, "MEDICARE", rec.Carrier, "carrier is upper-cased on ingest")
	assert.Equal(t, "42", rec.Paycode.String)
	assert.True(t, rec.LineItemPost)
	assert.Equal(t, 3, rec.Group)
	assert.Equal(t, "CO-45", rec.RejCodes[0])
	assert.Equal(t, "N130", rec.Remarks[0])
	assert.Empty(t, rec.RejCodes[1])
}

func TestParseFileDropsInvalidRows(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "rejections_08_29_2025.csv",
		csvHeader+
			"12345678,MEDICARE,42,Y,3,CO-45,,,\n"+ // eight digit invoice
			"123456789,BCBS TEXAS,42,Y,3,CO-45,,,\n"+ // carrier off the allow-list
			"223456789,,42,Y,3,CO-45,,,\n"+ // line item post without a carrier
			"323456789,MEDICARE,42,notanumber,x,CO-45,,,\n"+ // bad group
			"423456789,MEDICARE,42,N,3,CO-45,,,\n") // survivor

	recs, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(423456789), recs[0].InvoiceNumber)
}

func TestParseFilePaycode901ForcesBulk(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "rejections_08_29_2025.csv",
		csvHeader+"123456789,MEDICARE,901,Y,3,CO-45,,,\n")

	recs, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.False(t, recs[0].LineItemPost)
	assert.Equal(t, "901", recs[0].Paycode.String)
}

func TestParseFileBulkRowWithoutCarrierSurvives(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "rejections_08_29_2025.csv",
		csvHeader+"123456789,,42,N,3,CO-45,,,\n")

	recs, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Empty(t, recs[0].Carrier)
}

func TestParseFileMissingColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "rejections_08_29_2025.csv",
		"Invoice Number,Carrier,Paycode,Group\n123456789,MEDICARE,42,3\n")

	_, err := ParseFile(path)
	assert.ErrorContains(t, err, "missing required columns")
}

func TestParseFilePlaceholderColumnsIgnored(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "rejections_08_29_2025.csv",
		"Invoice Number,Carrier,Paycode,LI Post,Group,Column6\n"+
			"123456789,MEDICARE,42,N,3,junk\n")

	recs, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, recs, 1)
}

func TestDiscoverMatchesBothDateFormats(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "rejections_08_29_2025.csv", csvHeader)
	writeCSV(t, dir, "worklist 08_29_25.csv", csvHeader)
	writeCSV(t, dir, "rejections_08_28_2025.csv", csvHeader)

	loader := NewLoader(dir, "", nil)
	now := time.Date(2025, time.August, 29, 6, 0, 0, 0, time.Local)

	files, err := loader.Discover(now)
	require.NoError(t, err)
	assert.Len(t, files, 2)
	for _, f := range files {
		assert.NotContains(t, f, "08_28")
	}
}

func TestDiscoverOverride(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "manual_rerun.csv", csvHeader)
	writeCSV(t, dir, "rejections_08_29_2025.csv", csvHeader)

	loader := NewLoader(dir, "manual_rerun", nil)
	files, err := loader.Discover(time.Date(2025, time.August, 29, 6, 0, 0, 0, time.Local))
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0], "manual_rerun.csv")
}

func TestArchive(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "rejections_08_29_2025.csv", csvHeader)
	loader := NewLoader(dir, "", nil)

	require.NoError(t, loader.Archive(path))
	assert.NoFileExists(t, path)
	assert.FileExists(t, filepath.Join(dir, "ARCHIVE", "rejections_08_29_2025.csv"))

	// A second call finds the file gone and treats it as done.
	require.NoError(t, loader.Archive(path))
}
