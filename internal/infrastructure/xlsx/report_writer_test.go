package xlsx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteReport(t *testing.T) {
	header := []string{"codigo", "estado", "motivo"}
	rows := [][]string{
		{"DEV-250310-0001", "reportada", "Broken, cracked"},
		{"DEV-250310-0002", "rechazada", ""},
	}

	b, err := NewReportWriter().WriteReport("Devoluciones", header, rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("Devoluciones")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, header, got[0])
	assert.Equal(t, "Broken, cracked", got[1][2])
	assert.Equal(t, "DEV-250310-0002", got[2][0])
}
