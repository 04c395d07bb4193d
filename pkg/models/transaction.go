package models

// AccountType tells the classifier which polarity convention applies to a
// single-amount statement. It is caller-supplied context, never inferred
// from the file.
type AccountType string

const (
	AccountTypeBank       AccountType = "bank_account"
	AccountTypeCreditCard AccountType = "credit_card"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	return t == AccountTypeBank || t == AccountTypeCreditCard
}

// RowStatus is the outcome of classifying a single statement row.
type RowStatus string

const (
	RowOK      RowStatus = "ok"
	RowSkipped RowStatus = "skipped"
	RowError   RowStatus = "error"
)

// Transaction is a normalized expense ready for persistence. Amount is
// always negative for rows that reach this point; inflows never become
// transactions.
type Transaction struct {
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	Category      string  `json:"category"`
	PaymentMethod string  `json:"payment_method"`
	Date          string  `json:"transaction_date"`
	Notes         string  `json:"notes,omitempty"`
	ImportHash    string  `json:"import_hash"`
}

// ParsedRow is the per-row report entry produced by the classifier.
type ParsedRow struct {
	Index                 int          `json:"row"`
	Raw                   string       `json:"raw_line"`
	Status                RowStatus    `json:"status"`
	Transaction           *Transaction `json:"transaction,omitempty"`
	Errors                []string     `json:"errors,omitempty"`
	Reason                string       `json:"reason,omitempty"`
	NeedsDateConfirmation bool         `json:"requires_date_confirmation,omitempty"`
}

// FailedRow records a row that could not be imported, with the reason.
type FailedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult summarizes one import invocation.
type ImportResult struct {
	Imported   int         `json:"imported"`
	Duplicates int         `json:"duplicates"`
	Failed     int         `json:"failed"`
	Errors     []FailedRow `json:"errors,omitempty"`
}
