// Package importer reads contract and receipt spreadsheets (XLSX or CSV) and
// produces the matching blank templates and payment exports.
package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Row is one data row keyed by normalised header. Number is the 1-based
// spreadsheet line, the header being line 1.
type Row struct {
	Number int
	Values map[string]string
}

// Get returns the first non-empty value among the given header names.
func (r Row) Get(headers ...string) string {
	for _, h := range headers {
		if v := r.Values[normalizeHeader(h)]; v != "" {
			return v
		}
	}
	return ""
}

// DetectFormat picks the format from the file extension, then the content type.
func DetectFormat(filename, contentType string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(filename), ".")) {
	case "xlsx":
		return FormatXLSX, nil
	case "csv":
		return FormatCSV, nil
	}

	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch mediaType {
	case xlsxContentType:
		return FormatXLSX, nil
	case "text/csv", "application/csv", "text/plain":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("DetectFormat: %q: %w", filename, domain.ErrUnsupportedFormat)
}

// ReadRows reads every non-blank data row of the first sheet (XLSX) or the
// whole file (CSV).
func ReadRows(r io.Reader, format Format) ([]Row, error) {
	var (
		rows []Row
		err  error
	)
	switch format {
	case FormatXLSX:
		rows, err = readXLSX(r)
	case FormatCSV:
		rows, err = readCSV(r)
	default:
		return nil, fmt.Errorf("ReadRows: %q: %w", format, domain.ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("ReadRows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("ReadRows: %w", domain.ErrEmptyImport)
	}
	return rows, nil
}

func readXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %v: %w", err, domain.ErrUnsupportedFormat)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("xlsx has no sheets")
	}

	it, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	defer it.Close()

	// Raw values keep dates as Excel serials instead of locale-formatted text.
	raw := excelize.Options{RawCellValue: true}

	if !it.Next() {
		return nil, it.Error()
	}
	header, err := it.Columns(raw)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	var rows []Row
	line := 1
	for it.Next() {
		line++
		cols, err := it.Columns(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if row, ok := toRow(line, header, cols); ok {
			rows = append(rows, row)
		}
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	return rows, nil
}

func readCSV(r io.Reader) ([]Row, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		br.Discard(3)
	}

	first, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("peek: %w", err)
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.Comma = sniffDelimiter(first)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	var rows []Row
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if row, ok := toRow(line, header, record); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// Spreadsheets exported with a comma decimal separator use ';' between fields.
func sniffDelimiter(sample []byte) rune {
	firstLine, _, _ := bytes.Cut(sample, []byte("\n"))
	if bytes.Count(firstLine, []byte(";")) > bytes.Count(firstLine, []byte(",")) {
		return ';'
	}
	return ','
}

func toRow(line int, header, cols []string) (Row, bool) {
	values := make(map[string]string, len(header))
	blank := true
	for i, key := range header {
		v := ""
		if i < len(cols) {
			v = strings.TrimSpace(cols[i])
		}
		if v != "" {
			blank = false
		}
		values[normalizeHeader(key)] = v
	}
	return Row{Number: line, Values: values}, !blank
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}
