package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		want        Format
		wantErr     bool
	}{
		{name: "xlsx extension", filename: "contratos.XLSX", want: FormatXLSX},
		{name: "csv extension", filename: "recebimentos.csv", want: FormatCSV},
		{name: "xlsx by content type", filename: "upload", contentType: xlsxContentType, want: FormatXLSX},
		{name: "csv by content type", filename: "upload", contentType: "text/csv; charset=utf-8", want: FormatCSV},
		{name: "pdf rejected", filename: "contratos.pdf", contentType: "application/pdf", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectFormat(tc.filename, tc.contentType)
			if tc.wantErr {
				require.ErrorIs(t, err, domain.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReadRows_CSV(t *testing.T) {
	t.Run("comma separated with BOM", func(t *testing.T) {
		data := "\xEF\xBB\xBFNome do Cliente,Valor do Empréstimo\nMaria Silva,5000\n,\nJoão,1000\n"

		rows, err := ReadRows(strings.NewReader(data), FormatCSV)
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, 2, rows[0].Number)
		assert.Equal(t, "Maria Silva", rows[0].Get("nome do cliente"))
		assert.Equal(t, 4, rows[1].Number, "blank lines keep their line number")
		assert.Equal(t, "1000", rows[1].Get("Valor do Empréstimo"))
	})

	t.Run("semicolon separated", func(t *testing.T) {
		data := "Nome do Cliente;Valor\nMaria;1.234,56\n"

		rows, err := ReadRows(strings.NewReader(data), FormatCSV)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "1.234,56", rows[0].Get("Valor"))
	})

	t.Run("header only", func(t *testing.T) {
		_, err := ReadRows(strings.NewReader("Nome do Cliente,Valor\n"), FormatCSV)
		require.ErrorIs(t, err, domain.ErrEmptyImport)
	})
}

func TestReadRows_XLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Nome do Cliente", "Valor", "Data do Recebimento"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Maria Silva", 500, "15/02/2026"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]any{"João", 250.5, "2026-03-01"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	rows, err := ReadRows(&buf, FormatXLSX)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Maria Silva", rows[0].Get("Nome do Cliente"))
	assert.Equal(t, "500", rows[0].Get("Valor"))
	assert.Equal(t, 4, rows[1].Number)
	assert.Equal(t, "250.5", rows[1].Get("valor"))
}

func TestRowGet_FallsBackToAlias(t *testing.T) {
	row := Row{Values: map[string]string{"client_name": "Maria", "nome do cliente": ""}}
	assert.Equal(t, "Maria", row.Get("Nome do Cliente", "client_name"))
	assert.Empty(t, row.Get("missing"))
}
