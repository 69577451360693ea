package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type officer struct {
	Name   string
	Status string
}

var columns = []Column[officer]{
	{Header: "Name", Value: func(o officer) any { return o.Name }},
	{Header: "Status", Value: func(o officer) any { return o.Status }},
}

func TestTableOf(t *testing.T) {
	t.Parallel()

	tbl := TableOf("Personnel", columns, []officer{{"Maria", "Active"}, {"Jose", "Rejected"}})
	assert.Equal(t, []string{"Name", "Status"}, tbl.Headers)
	assert.Equal(t, [][]any{{"Maria", "Active"}, {"Jose", "Rejected"}}, tbl.Rows)
}

func TestSaveXLSX_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "personnel.xlsx")
	tbl := TableOf("Personnel", columns, []officer{{"Maria", "Active"}, {"Jose", "Rejected"}})
	require.NoError(t, SaveXLSX(path, tbl))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Personnel")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Name", "Status"}, {"Maria", "Active"}, {"Jose", "Rejected"}}, rows)
}

func TestWriteXLSX_DefaultSheet(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, Table{Headers: []string{"Title"}}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(defaultSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Title"}}, rows)
}
