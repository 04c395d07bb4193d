package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/budgetbr/extratu/pkg/models"
)

// WriteReportCSV writes the full per-row classification report, OK rows
// with their normalized values and SKIPPED/ERROR rows with their reason,
// so a user can correct problem rows before reattempting an import.
func WriteReportCSV(w io.Writer, rows []models.ParsedRow) error {
	writer := csv.NewWriter(w)

	header := []string{"row", "status", "date", "description", "amount", "category", "payment_method", "reason"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("error writing report header: %w", err)
	}

	for _, row := range rows {
		record := []string{strconv.Itoa(row.Index), string(row.Status), "", "", "", "", "", row.Reason}
		if row.Transaction != nil {
			t := row.Transaction
			record[2] = t.Date
			record[3] = t.Description
			record[4] = strconv.FormatFloat(t.Amount, 'f', 2, 64)
			record[5] = t.Category
			record[6] = t.PaymentMethod
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("error writing report row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
