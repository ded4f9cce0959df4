package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"fjacquet/revol-ver/internal/logging"
	"fjacquet/revol-ver/internal/models"

	"github.com/gocarina/gocsv"
)

// CSVWriter writes transactions as delimited text.
type CSVWriter struct {
	dir       string
	delimiter rune
	now       func() time.Time
	logger    logging.Logger
}

// NewCSVWriter creates a CSVWriter writing into dir. A zero delimiter means a comma.
func NewCSVWriter(dir string, delimiter rune, logger logging.Logger) *CSVWriter {
	if delimiter == 0 {
		delimiter = ','
	}
	return &CSVWriter{dir: dir, delimiter: delimiter, now: time.Now, logger: logger}
}

// Format returns FormatCSV.
func (w *CSVWriter) Format() string { return FormatCSV }

// Write implements Writer.
func (w *CSVWriter) Write(txs []models.Transaction, period models.Period) (string, error) {
	path, err := outputPath(w.dir, w.now(), period, FormatCSV)
	if err != nil {
		return "", err
	}

	rows := make([]Row, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, NewRow(tx))
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, models.PermissionExportFile) // #nosec G304 -- path is built from configuration
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			w.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = w.delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return "", fmt.Errorf("error writing CSV data: %w", err)
	}

	w.logger.Info("Saved rows to file",
		logging.F(logging.FieldCount, len(rows)),
		logging.F(logging.FieldFile, path))
	return path, nil
}
