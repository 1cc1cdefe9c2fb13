package armakalman

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Exporter defines an export interface for completed filter passes.
type Exporter interface {
	Write(kf *ArmaFilter) error
	Close() error
}

// CSVExporter writes the per-step prediction errors and prediction error
// variances of a filter pass, one row per time step.
type CSVExporter struct {
	delimiter string
	hdlr      *os.File
}

// NewCSVExporter initializes a new CSV export.
func NewCSVExporter(filepath, filename string) (e *CSVExporter, err error) {
	f, err := os.Create(fmt.Sprintf("%s/%s", filepath, filename))
	if err != nil {
		return
	}
	delimiter := ","
	hdr := strings.Join([]string{"t", "predictionError", "predictionErrorVariance"}, delimiter)
	f.WriteString(fmt.Sprintf("# Creation date (UTC): %s\n%s\n", time.Now().UTC(), hdr))
	e = &CSVExporter{delimiter, f}
	return
}

// Write writes every step of the filter pass to the CSV file.
func (e CSVExporter) Write(kf *ArmaFilter) error {
	errs := kf.PredictionErrors()
	vars := kf.PredictionErrorVariances()
	for t := range errs {
		vals := []string{
			fmt.Sprintf("%d", t),
			fmt.Sprintf("%f", errs[t]),
			fmt.Sprintf("%f", vars[t]),
		}
		if _, err := e.hdlr.WriteString(strings.Join(vals, e.delimiter) + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteRawLn writes a raw line to the CSV file.
func (e CSVExporter) WriteRawLn(s string) error {
	_, err := e.hdlr.WriteString(s + "\n")
	return err
}

// Close closes the file.
func (e CSVExporter) Close() (err error) {
	err = e.WriteRawLn(fmt.Sprintf("# Closing date (UTC): %s\n", time.Now().UTC()))
	if err != nil {
		return
	}
	return e.hdlr.Close()
}
