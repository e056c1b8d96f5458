package excel

// ExcelConfig holds configuration for reading uploaded data files
type ExcelConfig struct {
	// SheetName selects a worksheet; empty means the first sheet of the workbook
	SheetName string `json:"sheet_name"`
	// NATokens are cell texts treated as missing in addition to the empty string
	NATokens []string `json:"na_tokens"`
}

// DefaultNATokens mirrors the missing-value markers common spreadsheet and
// dataframe tools recognize
var DefaultNATokens = []string{
	"NA", "N/A", "n/a", "NaN", "nan", "-NaN", "-nan",
	"null", "NULL", "None", "#N/A", "#NA", "<NA>", "#N/A N/A",
	"-1.#IND", "1.#IND", "-1.#QNAN", "1.#QNAN",
}

// DefaultExcelConfig returns sensible defaults for file reading
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		NATokens: DefaultNATokens,
	}
}
