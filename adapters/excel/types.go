package excel

import (
	"path/filepath"
	"strings"

	"chartdesk/internal/errors"
)

// Format identifies how an uploaded file is parsed
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var spreadsheetExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xltx": true,
	".xltm": true,
}

// DetectFormat picks the parser from the filename extension only
func DetectFormat(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".csv" {
		return FormatCSV, nil
	}
	if spreadsheetExtensions[ext] {
		return FormatXLSX, nil
	}
	return "", errors.UnsupportedFormat(filename)
}

// AcceptedExtensions lists the extensions offered by the file picker
func AcceptedExtensions() []string {
	return []string{".csv", ".xlsx", ".xlsm", ".xltx", ".xltm"}
}
