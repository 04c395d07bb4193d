// Package importer batches classified rows into the external persistence
// collaborator, suppressing duplicates by import hash. It is decoupled
// from CLI and HTTP details so both layers can reuse it.
package importer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/budgetbr/extratu/pkg/dedupe"
	"github.com/budgetbr/extratu/pkg/models"
)

const defaultBatchSize = 50

// StoredTransaction is the tuple the persistence collaborator exposes for
// duplicate comparison.
type StoredTransaction struct {
	Date        string
	Amount      float64
	Description string
}

// Store is the external persistence collaborator: bulk insert plus a read
// of existing tuples, both scoped by an account identifier. Inserts are
// treated as at-least-once; the import hash is the only duplicate
// defense.
type Store interface {
	Existing(scope string) ([]StoredTransaction, error)
	InsertBatch(scope string, batch []models.Transaction) error
}

type Importer struct {
	store          Store
	logger         *log.Logger
	batchSize      int
	skipDuplicates bool
}

type Option func(*Importer)

// WithBatchSize bounds how many transactions go to the store per call.
func WithBatchSize(n int) Option {
	return func(im *Importer) {
		if n > 0 {
			im.batchSize = n
		}
	}
}

// WithDuplicateSkipping toggles hash-based duplicate suppression
// (enabled by default).
func WithDuplicateSkipping(enabled bool) Option {
	return func(im *Importer) { im.skipDuplicates = enabled }
}

func New(store Store, logger *log.Logger, opts ...Option) *Importer {
	im := &Importer{
		store:          store,
		logger:         logger,
		batchSize:      defaultBatchSize,
		skipDuplicates: true,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Import persists the OK rows of a classified batch. A failed batch is
// recorded against its rows and processing continues; committed batches
// are never rolled back.
func (im *Importer) Import(scope string, rows []models.ParsedRow) (*models.ImportResult, error) {
	result := &models.ImportResult{}

	seen := dedupe.Set{}
	if im.skipDuplicates {
		existing, err := im.store.Existing(scope)
		if err != nil {
			return nil, fmt.Errorf("loading existing transactions: %w", err)
		}
		for _, t := range existing {
			seen.Add(dedupe.Hash(t.Date, t.Amount, t.Description))
		}
	}

	var batch []models.Transaction
	var batchRows []int

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := im.store.InsertBatch(scope, batch); err != nil {
			im.logger.Warn("persistence batch failed", "scope", scope, "rows", len(batch), "error", err)
			result.Failed += len(batch)
			for _, idx := range batchRows {
				result.Errors = append(result.Errors, models.FailedRow{
					Row:    idx,
					Reason: fmt.Sprintf("persistence batch failed: %v", err),
				})
			}
		} else {
			result.Imported += len(batch)
		}
		batch = batch[:0]
		batchRows = batchRows[:0]
	}

	for _, row := range rows {
		switch row.Status {
		case models.RowError:
			result.Failed++
			result.Errors = append(result.Errors, models.FailedRow{Row: row.Index, Reason: rowReason(row)})
			continue
		case models.RowOK:
		default:
			continue
		}

		tx := *row.Transaction
		if im.skipDuplicates && seen.Contains(tx.ImportHash) {
			result.Duplicates++
			continue
		}
		seen.Add(tx.ImportHash)

		batch = append(batch, tx)
		batchRows = append(batchRows, row.Index)
		if len(batch) == im.batchSize {
			flush()
		}
	}
	flush()

	im.logger.Info("import finished", "scope", scope,
		"imported", result.Imported, "duplicates", result.Duplicates, "failed", result.Failed)
	return result, nil
}

func rowReason(row models.ParsedRow) string {
	if len(row.Errors) > 0 {
		return strings.Join(row.Errors, "; ")
	}
	return row.Reason
}
