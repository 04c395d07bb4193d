// Package classifier decides, row by row, whether a statement value is an
// importable expense, an ignorable inflow, or a payment/reversal. Only
// expenses survive: the pipeline never imports positive transactions.
package classifier

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/budgetbr/extratu/pkg/analyzer"
	"github.com/budgetbr/extratu/pkg/dedupe"
	"github.com/budgetbr/extratu/pkg/models"
	"github.com/budgetbr/extratu/pkg/normalize"
	"github.com/budgetbr/extratu/pkg/table"
)

// Votes below this share of countable rows mark the polarity pass as low
// confidence; the warning rides along on every affected row.
const confidenceThreshold = 0.6

type Classifier struct {
	logger *log.Logger
	rules  *Rules
}

// New creates a Classifier. A nil rules uses the built-in tables.
func New(logger *log.Logger, rules *Rules) *Classifier {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Classifier{logger: logger, rules: rules}
}

// ClassifyAll classifies the full data-row batch of one statement. The
// whole set is required up front because the credit-card polarity rule
// depends on the dominant sign across the batch, not on any single row.
func (c *Classifier) ClassifyAll(rows [][]string, analysis *analyzer.CSVAnalysis, accountType models.AccountType) []models.ParsedRow {
	singleAmount := !analysis.HasInOutColumns

	dominant := -1
	lowConfidence := false
	if accountType == models.AccountTypeCreditCard && singleAmount {
		dominant, lowConfidence = c.dominantSign(rows, analysis)
		c.logger.Debug("polarity vote", "dominant", dominant, "low_confidence", lowConfidence)
	}

	sep := analysis.Separator
	if sep == "" {
		sep = ";"
	}

	out := make([]models.ParsedRow, 0, len(rows))
	for i, row := range rows {
		parsed := models.ParsedRow{Index: i, Raw: strings.Join(row, sep)}
		c.classifyRow(&parsed, row, analysis, accountType, dominant, lowConfidence)
		out = append(out, parsed)
	}
	return out
}

func (c *Classifier) classifyRow(parsed *models.ParsedRow, row []string, analysis *analyzer.CSVAnalysis, accountType models.AccountType, dominant int, lowConfidence bool) {
	folded := normalize.Fold(parsed.Raw)

	switch {
	case isBlank(row):
		skip(parsed, "blank row")
		return
	case table.IsHeaderRow(row):
		skip(parsed, "repeated header row")
		return
	case isBoilerplate(folded):
		skip(parsed, "statement boilerplate")
		return
	case isLoneText(row):
		skip(parsed, "no tabular content")
		return
	}

	description := strings.TrimSpace(cellAt(row, analysis.IndexOf(analyzer.FieldDescription)))

	amount, decided := c.resolveAmount(parsed, row, analysis, accountType, description, dominant, lowConfidence)
	if !decided {
		return
	}

	dateRaw := strings.TrimSpace(cellAt(row, analysis.IndexOf(analyzer.FieldDate)))
	date, ok := normalize.ParseDateHint(dateRaw, analysis.DateFormat)
	if !ok {
		parsed.Status = models.RowError
		parsed.NeedsDateConfirmation = true
		parsed.Reason = "transaction date requires confirmation"
		if dateRaw == "" {
			parsed.Errors = append(parsed.Errors, "missing date")
		} else {
			parsed.Errors = append(parsed.Errors, fmt.Sprintf("invalid date %q", dateRaw))
		}
		return
	}

	category := normalize.Fold(cellAt(row, analysis.IndexOf(analyzer.FieldCategory)))
	if category == "" {
		category = c.rules.CategoryFor(description)
	}
	method := normalize.Fold(cellAt(row, analysis.IndexOf(analyzer.FieldPaymentMethod)))
	if method == "" {
		method = c.rules.PaymentMethodFor(description)
	}

	parsed.Status = models.RowOK
	parsed.Transaction = &models.Transaction{
		Description:   description,
		Amount:        amount,
		Category:      category,
		PaymentMethod: method,
		Date:          date,
		Notes:         strings.TrimSpace(cellAt(row, analysis.IndexOf(analyzer.FieldNotes))),
		ImportHash:    dedupe.Hash(date, amount, description),
	}
}

// resolveAmount applies the layout- and account-specific polarity rules.
// It reports decided=false when the row terminated as SKIPPED or ERROR.
func (c *Classifier) resolveAmount(parsed *models.ParsedRow, row []string, analysis *analyzer.CSVAnalysis, accountType models.AccountType, description string, dominant int, lowConfidence bool) (float64, bool) {
	if analysis.HasInOutColumns {
		inflow, inOK := parseAt(row, analysis.InflowIndex())
		outflow, outOK := parseAt(row, analysis.OutflowIndex())
		switch {
		case outOK && outflow != 0:
			if inOK && inflow != 0 {
				parsed.Reason = "inflow and outflow both present; imported the outflow value"
			}
			return -math.Abs(outflow), true
		case inOK && inflow != 0:
			skip(parsed, "income ignored")
			return 0, false
		default:
			fail(parsed, "no amount in inflow or outflow columns")
			return 0, false
		}
	}

	raw := strings.TrimSpace(cellAt(row, analysis.IndexOf(analyzer.FieldAmount)))
	value, ok := normalize.ParseNumber(raw)
	if !ok {
		fail(parsed, fmt.Sprintf("invalid amount %q", raw))
		return 0, false
	}
	if value == 0 {
		skip(parsed, "zero amount")
		return 0, false
	}

	switch accountType {
	case models.AccountTypeCreditCard:
		sign := 1
		if value < 0 {
			sign = -1
		}
		if sign != dominant {
			reason := "payment or reversal ignored"
			if isInvoiceOrCard(description) {
				reason += " (invoice/card keyword)"
			}
			if lowConfidence {
				reason += "; polarity vote below confidence threshold"
			}
			skip(parsed, reason)
			return 0, false
		}
		if lowConfidence {
			parsed.Reason = "polarity vote below confidence threshold"
		}
		return -math.Abs(value), true
	default:
		// Checking accounts are sign-authoritative, even when the file
		// carries an explicit type tag.
		if value > 0 {
			skip(parsed, "inflow ignored for checking account")
			return 0, false
		}
		return value, true
	}
}

// dominantSign counts the sign of every countable amount in the batch.
// Rows whose description reads like an invoice or card payment are biased
// out of the vote.
func (c *Classifier) dominantSign(rows [][]string, analysis *analyzer.CSVAnalysis) (int, bool) {
	amountIdx := analysis.IndexOf(analyzer.FieldAmount)
	descIdx := analysis.IndexOf(analyzer.FieldDescription)

	pos, neg := 0, 0
	for _, row := range rows {
		folded := normalize.Fold(strings.Join(row, " "))
		if isBlank(row) || table.IsHeaderRow(row) || isBoilerplate(folded) {
			continue
		}
		value, ok := parseAt(row, amountIdx)
		if !ok || value == 0 {
			continue
		}
		if isInvoiceOrCard(cellAt(row, descIdx)) {
			continue
		}
		if value > 0 {
			pos++
		} else {
			neg++
		}
	}

	total := pos + neg
	if total == 0 {
		return -1, true
	}
	dominant := -1
	if pos > neg {
		dominant = 1
	}
	share := float64(max(pos, neg)) / float64(total)
	return dominant, share < confidenceThreshold
}

func skip(parsed *models.ParsedRow, reason string) {
	parsed.Status = models.RowSkipped
	parsed.Reason = reason
}

func fail(parsed *models.ParsedRow, message string) {
	parsed.Status = models.RowError
	parsed.Errors = append(parsed.Errors, message)
	parsed.Reason = message
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseAt(row []string, idx int) (float64, bool) {
	return normalize.ParseNumber(strings.TrimSpace(cellAt(row, idx)))
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// isLoneText matches rows reduced to a single non-numeric cell, the usual
// shape of stray statement text.
func isLoneText(row []string) bool {
	nonEmpty := 0
	lone := ""
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			nonEmpty++
			lone = cell
		}
	}
	if nonEmpty != 1 {
		return false
	}
	if _, ok := normalize.ParseNumber(lone); ok {
		return false
	}
	if _, ok := normalize.ParseDate(lone); ok {
		return false
	}
	return true
}
