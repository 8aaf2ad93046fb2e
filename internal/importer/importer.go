// Package importer reads cut lists from CSV, Excel, DXF and TOML files.
// Tabular formats get automatic delimiter detection and case-insensitive
// header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/RollCut/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Pieces   []model.PieceType
	Errors   []string
	Warnings []string
}

// OK reports whether the import produced pieces without errors.
func (r ImportResult) OK() bool {
	return len(r.Errors) == 0 && len(r.Pieces) > 0
}

// ColumnMapping maps semantic column roles to their indices in the data.
// A negative index means the column is absent.
type ColumnMapping struct {
	Label    int
	Width    int
	Height   int
	Quantity int
}

type columnRole int

const (
	roleLabel columnRole = iota
	roleWidth
	roleHeight
	roleQuantity
)

// headerAliases maps column roles to their accepted header names (lowercase).
var headerAliases = map[columnRole][]string{
	roleLabel:    {"label", "name", "piece", "piece name", "part", "description", "desc", "item"},
	roleWidth:    {"width", "w", "largura", "x"},
	roleHeight:   {"height", "h", "length", "len", "altura", "y"},
	roleQuantity: {"quantity", "qty", "count", "num", "amount", "pcs", "pieces", "quantidade"},
}

func (m *ColumnMapping) slot(role columnRole) *int {
	switch role {
	case roleLabel:
		return &m.Label
	case roleWidth:
		return &m.Width
	case roleHeight:
		return &m.Height
	default:
		return &m.Quantity
	}
}

// positionalMapping is used when the first row is not a header:
// Label, Width, Height, Quantity.
var positionalMapping = ColumnMapping{Label: 0, Width: 1, Height: 2, Quantity: 3}

// DetectCSVDelimiter determines the most likely delimiter among comma,
// semicolon, tab and pipe. The delimiter giving the most rows with the same
// (more than one) column count as the first row wins.
func DetectCSVDelimiter(data []byte) rune {
	best, bestScore := ',', 0
	for _, delim := range []rune{',', ';', '\t', '|'} {
		records, err := readCSV(bytes.NewReader(data), delim)
		if err != nil || len(records) == 0 {
			continue
		}
		cols := len(records[0])
		if cols < 2 {
			continue
		}
		consistent := 0
		for _, row := range records {
			if len(row) == cols {
				consistent++
			}
		}
		if score := consistent*10 + cols; score > bestScore {
			best, bestScore = delim, score
		}
	}
	return best
}

func readCSV(r io.Reader, delim rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// DetectColumns examines a row and returns the column mapping and whether
// the row is a header. Without a header the positional mapping is returned.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Label: -1, Width: -1, Height: -1, Quantity: -1}
	isHeader := false

	for i, cell := range row {
		name := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if name != alias {
					continue
				}
				isHeader = true
				if idx := mapping.slot(role); *idx == -1 {
					*idx = i
				}
			}
		}
	}

	if !isHeader {
		return positionalMapping, false
	}
	return mapping, true
}

// getCell safely retrieves a trimmed cell value, or "" when idx is out of range.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseMillimetres reads a dimension and rounds it to whole millimetres.
// It reports whether rounding changed the value.
func parseMillimetres(s string) (int, bool, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false, err
	}
	mm := math.Round(v)
	return int(mm), math.Abs(v-mm) > 1e-9, nil
}

// parseRow extracts a piece type from a row using the given column mapping.
// It returns the piece, an error message, and any warnings.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, pieceCount int) (model.PieceType, string, []string) {
	label := getCell(row, mapping.Label)
	if label == "" {
		label = fmt.Sprintf("Piece %d", pieceCount+1)
	}

	var warnings []string
	dims := [2]int{}
	for i, field := range []struct {
		name string
		idx  int
	}{{"width", mapping.Width}, {"height", mapping.Height}} {
		raw := getCell(row, field.idx)
		if raw == "" {
			return model.PieceType{}, fmt.Sprintf("%s: Missing %s value", rowLabel, field.name), nil
		}
		v, rounded, err := parseMillimetres(raw)
		if err != nil {
			return model.PieceType{}, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, field.name, raw), nil
		}
		if rounded {
			warnings = append(warnings, fmt.Sprintf("%s: %s '%s' rounded to %d mm", rowLabel, field.name, raw, v))
		}
		dims[i] = v
	}

	qtyStr := getCell(row, mapping.Quantity)
	qty := 1
	if mapping.Quantity >= 0 {
		if qtyStr == "" {
			return model.PieceType{}, fmt.Sprintf("%s: Missing quantity value", rowLabel), nil
		}
		var err error
		qty, err = strconv.Atoi(qtyStr)
		if err != nil {
			return model.PieceType{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), nil
		}
	}

	if dims[0] <= 0 || dims[1] <= 0 || qty <= 0 {
		return model.PieceType{}, fmt.Sprintf("%s: Width, height, and quantity must be positive", rowLabel), nil
	}

	return model.NewPieceType(label, dims[0], dims[1], qty), "", warnings
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportFile picks an importer from the file extension.
func ImportFile(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt", ".tsv":
		return ImportCSV(path)
	case ".xlsx", ".xlsm":
		return ImportExcel(path)
	case ".dxf":
		return ImportDXF(path)
	default:
		return ImportResult{Errors: []string{fmt.Sprintf("Unsupported file type '%s'", filepath.Ext(path))}}
	}
}

// ImportCSV imports pieces from a CSV file, detecting the delimiter and
// mapping columns by header names.
func ImportCSV(path string) ImportResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ImportResult{Errors: []string{"File is empty"}}
	}

	var warnings []string
	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		name := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", name))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	return importFromRows(records, "Line", warnings)
}

// ImportCSVFromReader imports pieces from a reader with a known delimiter.
func ImportCSVFromReader(r io.Reader, delimiter rune) ImportResult {
	records, err := readCSV(r, delimiter)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	return importFromRows(records, "Line", nil)
}

// ImportExcel imports pieces from the first sheet of an Excel workbook.
func ImportExcel(path string) ImportResult {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open Excel file: %v", err)}}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{Errors: []string{"Excel file has no sheets"}}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read Excel data: %v", err)}}
	}
	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared logic for CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, warnings []string) ImportResult {
	result := ImportResult{Warnings: warnings}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	start := 0
	switch {
	case hasHeader:
		start = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		var missing []string
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
		if mapping.Quantity == -1 {
			result.Warnings = append(result.Warnings, "No quantity column, assuming 1 of each")
		}
	case len(rows[0]) >= 3:
		// An unrecognised header still has a non-numeric width cell.
		if _, _, err := parseMillimetres(getCell(rows[0], 1)); err != nil {
			start = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := start; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		piece, errMsg, rowWarnings := parseRow(row, mapping, rowLabel, len(result.Pieces))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, rowWarnings...)
		result.Pieces = append(result.Pieces, piece)
	}

	if len(result.Pieces) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
	}
	return result
}
