// Package analyzer infers which statement column holds each internal
// field. A remote analysis service may be consulted first; the local
// heuristics are always available and always authoritative on failure.
package analyzer

// Field is an internal transaction field a source column can map to.
type Field string

const (
	FieldDate          Field = "date"
	FieldDescription   Field = "description"
	FieldAmount        Field = "amount"
	FieldEntrada       Field = "entrada"
	FieldSaida         Field = "saida"
	FieldCredito       Field = "credito"
	FieldDebito        Field = "debito"
	FieldCategory      Field = "category"
	FieldPaymentMethod Field = "payment_method"
	FieldNotes         Field = "notes"
)

var knownFields = map[Field]bool{
	FieldDate: true, FieldDescription: true, FieldAmount: true,
	FieldEntrada: true, FieldSaida: true, FieldCredito: true,
	FieldDebito: true, FieldCategory: true, FieldPaymentMethod: true,
	FieldNotes: true,
}

// ColumnMapping binds one source column to an internal field.
type ColumnMapping struct {
	Label      string  `json:"source_column_label"`
	Index      int     `json:"source_column_index"`
	Field      Field   `json:"internal_field"`
	Confidence float64 `json:"confidence"`
}

// CSVAnalysis is the column-mapping result for one statement.
type CSVAnalysis struct {
	Separator       string          `json:"separator"`
	HasHeader       bool            `json:"has_header"`
	HasInOutColumns bool            `json:"has_in_out_columns"`
	Mappings        []ColumnMapping `json:"column_mappings"`
	DateFormat      string          `json:"date_format_hint,omitempty"`
}

// IndexOf returns the column index mapped to field, or -1.
func (a *CSVAnalysis) IndexOf(field Field) int {
	for _, m := range a.Mappings {
		if m.Field == field {
			return m.Index
		}
	}
	return -1
}

// InflowIndex returns the inflow column regardless of which Portuguese
// convention named it.
func (a *CSVAnalysis) InflowIndex() int {
	if i := a.IndexOf(FieldEntrada); i >= 0 {
		return i
	}
	return a.IndexOf(FieldCredito)
}

// OutflowIndex returns the outflow column regardless of naming.
func (a *CSVAnalysis) OutflowIndex() int {
	if i := a.IndexOf(FieldSaida); i >= 0 {
		return i
	}
	return a.IndexOf(FieldDebito)
}

// SeparatorRune returns the separator as a rune, defaulting to ';'.
func (a *CSVAnalysis) SeparatorRune() rune {
	for _, r := range a.Separator {
		return r
	}
	return ';'
}
