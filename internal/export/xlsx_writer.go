package export

import (
	"fmt"
	"time"

	"fjacquet/revol-ver/internal/logging"
	"fjacquet/revol-ver/internal/models"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the exported transactions.
const SheetName = "Transactions"

// XLSXWriter writes transactions to an Excel workbook.
type XLSXWriter struct {
	dir    string
	now    func() time.Time
	logger logging.Logger
}

// NewXLSXWriter creates an XLSXWriter writing into dir.
func NewXLSXWriter(dir string, logger logging.Logger) *XLSXWriter {
	return &XLSXWriter{dir: dir, now: time.Now, logger: logger}
}

// Format returns FormatXLSX.
func (w *XLSXWriter) Format() string { return FormatXLSX }

// Write implements Writer. The first row holds the column names.
func (w *XLSXWriter) Write(txs []models.Transaction, period models.Period) (string, error) {
	path, err := outputPath(w.dir, w.now(), period, FormatXLSX)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			w.logger.WithError(err).Warn("Failed to close workbook")
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return "", fmt.Errorf("error naming sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, column := range Columns {
		header[i] = column
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return "", fmt.Errorf("error writing header: %w", err)
	}

	for i, tx := range txs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		values := cells(tx)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return "", fmt.Errorf("error writing row %d: %w", i+1, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return "", fmt.Errorf("error freezing header: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("error saving workbook: %w", err)
	}

	w.logger.Info("Saved rows to file",
		logging.F(logging.FieldCount, len(txs)),
		logging.F(logging.FieldFile, path))
	return path, nil
}
