// Package export writes accepted transactions to timestamped spreadsheet files.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/revol-ver/internal/fileutils"
	"fjacquet/revol-ver/internal/logging"
	"fjacquet/revol-ver/internal/models"
)

// Supported export formats
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

const fileTimestampLayout = "2006_01_02_15_04_05"

// Writer writes one file per run and returns its path.
type Writer interface {
	Write(txs []models.Transaction, period models.Period) (string, error)
	Format() string
}

// FileName builds "<timestamp>_export_<label>.<ext>",
// e.g. "2024_03_01_08_00_00_export_month_2024_02.xlsx".
func FileName(now time.Time, label, ext string) string {
	return fmt.Sprintf("%s_export_%s.%s", now.Format(fileTimestampLayout), label, ext)
}

// NewWriter returns the writer for format, writing into dir.
func NewWriter(format, dir string, delimiter rune, logger logging.Logger) (Writer, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	switch strings.ToLower(format) {
	case FormatXLSX, "":
		return NewXLSXWriter(dir, logger), nil
	case FormatCSV:
		return NewCSVWriter(dir, delimiter, logger), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// outputPath prepares dir and returns the path of a new export file.
func outputPath(dir string, now time.Time, period models.Period, ext string) (string, error) {
	if err := fileutils.EnsureDirectoryExists(dir); err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName(now, period.Label(), ext)), nil
}
