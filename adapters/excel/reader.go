package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chartdesk/domain/dataset"
	"chartdesk/internal"
	"chartdesk/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV files into tables
type DataReader struct {
	filename string
	format   Format
	config   ExcelConfig
	coercer  *TypeCoercer
	logger   *internal.Logger
}

// NewDataReader creates a reader for the given file name. The format is
// decided by extension alone; the contents are never sniffed.
func NewDataReader(filename string, config ExcelConfig) (*DataReader, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}
	return &DataReader{
		filename: filename,
		format:   format,
		config:   config,
		coercer:  NewTypeCoercer(config.NATokens),
		logger:   internal.DefaultLogger.WithField("file", filepath.Base(filename)),
	}, nil
}

// Format returns the detected format
func (r *DataReader) Format() Format {
	return r.format
}

// ReadFile opens path and reads it with the default configuration
func ReadFile(path string) (*dataset.Table, error) {
	reader, err := NewDataReader(path, DefaultExcelConfig())
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.ParseFailed(filepath.Base(path), err)
	}
	defer f.Close()
	return reader.Read(f)
}

// Read parses src into a table. Any failure is reported as PARSE_FAILED with
// the underlying cause attached.
func (r *DataReader) Read(src io.Reader) (*dataset.Table, error) {
	start := time.Now()
	var (
		rows [][]string
		err  error
	)
	switch r.format {
	case FormatCSV:
		rows, err = r.readCSVRows(src)
	case FormatXLSX:
		rows, err = r.readExcelRows(src)
	default:
		err = fmt.Errorf("unsupported file type: %s", r.format)
	}
	if err != nil {
		return nil, errors.ParseFailed(filepath.Base(r.filename), err)
	}

	table, err := r.processRows(rows)
	if err != nil {
		return nil, errors.ParseFailed(filepath.Base(r.filename), err)
	}
	r.logger.Debug("%s file processed in %.2fms (%d columns, %d rows)",
		strings.ToUpper(string(r.format)), float64(time.Since(start).Nanoseconds())/1e6,
		table.ColumnCount(), table.RowCount())
	return table, nil
}

// readExcelRows reads raw cell values from the configured or first worksheet
func (r *DataReader) readExcelRows(src io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := r.config.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no worksheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return dropBlankRows(rows), nil
}

// readCSVRows reads all records; ragged rows are checked in processRows
func (r *DataReader) readCSVRows(src io.Reader) ([][]string, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return dropBlankRows(rows), nil
}

// processRows turns a header row plus data rows into typed columns
func (r *DataReader) processRows(rows [][]string) (*dataset.Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no columns to parse from file")
	}

	header := rows[0]
	width := len(header)
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) <= width {
			continue
		}
		if r.format == FormatCSV {
			return nil, fmt.Errorf("expected %d fields in line %d, saw %d", width, i+1, len(rows[i]))
		}
		width = len(rows[i])
	}

	names := uniqueHeaders(header, width)
	values := make([][]string, width)
	for j := range values {
		values[j] = make([]string, 0, len(rows)-1)
	}
	for _, row := range rows[1:] {
		for j := 0; j < width; j++ {
			cell := ""
			if j < len(row) {
				cell = row[j]
			}
			values[j] = append(values[j], cell)
		}
	}

	columns := make([]*dataset.Column, width)
	for j, name := range names {
		columns[j] = r.coercer.BuildColumn(name, values[j])
	}
	return dataset.NewTable(filepath.Base(r.filename), columns)
}

// uniqueHeaders names blank headers "Unnamed: i" and suffixes duplicates with
// ".1", ".2", ... so every column name is unique
func uniqueHeaders(header []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]bool, width)
	counts := make(map[string]int, width)
	for i := 0; i < width; i++ {
		name := ""
		if i < len(header) {
			name = strings.TrimSpace(header[i])
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		candidate := name
		for seen[candidate] {
			counts[name]++
			candidate = fmt.Sprintf("%s.%d", name, counts[name])
		}
		seen[candidate] = true
		names[i] = candidate
	}
	return names
}

func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0:0]
	for _, row := range rows {
		blank := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				blank = false
				break
			}
		}
		if !blank {
			out = append(out, row)
		}
	}
	return out
}
