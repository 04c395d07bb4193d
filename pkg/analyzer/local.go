package analyzer

import (
	"encoding/csv"
	"regexp"
	"strings"

	"github.com/budgetbr/extratu/pkg/decoder"
	"github.com/budgetbr/extratu/pkg/normalize"
	"github.com/budgetbr/extratu/pkg/table"
)

const (
	defaultSampleSize = 5

	confidenceHeader      = 0.9
	confidenceShape       = 0.6
	confidenceDescription = 0.5
)

// headerPatterns map folded header labels to fields, tried in order.
// First match wins per column; first column wins per field.
var headerPatterns = []struct {
	field   Field
	pattern *regexp.Regexp
}{
	{FieldDate, regexp.MustCompile(`^(data|date|dt)\b|\bdata\b`)},
	{FieldDescription, regexp.MustCompile(`descricao|historico|lancamento|estabelecimento|memo|payee|description`)},
	{FieldEntrada, regexp.MustCompile(`\bentrada`)},
	{FieldSaida, regexp.MustCompile(`\bsaida`)},
	{FieldCredito, regexp.MustCompile(`\bcredito\b|\bcredit\b`)},
	{FieldDebito, regexp.MustCompile(`\bdebito\b|\bdebit\b`)},
	{FieldAmount, regexp.MustCompile(`\bvalor\b|\bamount\b|\bmontante\b|\bquantia\b`)},
	{FieldCategory, regexp.MustCompile(`categoria|category`)},
	{FieldPaymentMethod, regexp.MustCompile(`forma de pagamento|metodo|meio de pagamento|payment`)},
	{FieldNotes, regexp.MustCompile(`observac|\bnotas?\b|\bnotes?\b`)},
}

// AnalyzeLocal runs the deterministic column analysis: separator by
// consistent count, header by vocabulary, columns by header name first and
// content shape second.
func AnalyzeLocal(content string, sampleSize int) *CSVAnalysis {
	if sampleSize <= 0 {
		sampleSize = defaultSampleSize
	}

	lines := nonEmptyLines(content)
	analysis := &CSVAnalysis{Separator: ";"}
	if len(lines) == 0 {
		return analysis
	}

	sep := decoder.DetectSeparator(lines)
	if sep == 0 {
		sep = ';'
	}
	analysis.Separator = string(sep)

	records := readRecords(content, sep)
	if len(records) == 0 {
		return analysis
	}

	header := records[0]
	analysis.HasHeader = table.IsHeaderRow(header)

	dataRows := records
	if analysis.HasHeader {
		dataRows = records[1:]
	}
	if len(dataRows) > sampleSize {
		dataRows = dataRows[:sampleSize]
	}

	mapped := map[int]bool{}
	if analysis.HasHeader {
		for i, label := range header {
			folded := normalize.Fold(label)
			if folded == "" {
				continue
			}
			for _, hp := range headerPatterns {
				if analysis.IndexOf(hp.field) >= 0 || !hp.pattern.MatchString(folded) {
					continue
				}
				analysis.Mappings = append(analysis.Mappings, ColumnMapping{
					Label:      strings.TrimSpace(label),
					Index:      i,
					Field:      hp.field,
					Confidence: confidenceHeader,
				})
				mapped[i] = true
				break
			}
		}
	}

	width := rowWidth(records)
	for i := 0; i < width; i++ {
		if mapped[i] {
			continue
		}
		dates, amounts := shapeCounts(dataRows, i)
		switch {
		case analysis.IndexOf(FieldDate) < 0 && dates >= 3:
			analysis.Mappings = append(analysis.Mappings, shapeMapping(header, i, FieldDate, analysis.HasHeader))
			mapped[i] = true
		case analysis.IndexOf(FieldAmount) < 0 && amounts >= 3:
			analysis.Mappings = append(analysis.Mappings, shapeMapping(header, i, FieldAmount, analysis.HasHeader))
			mapped[i] = true
		}
	}

	if analysis.IndexOf(FieldDescription) < 0 {
		if i := longestTextColumn(dataRows, width, mapped); i >= 0 {
			analysis.Mappings = append(analysis.Mappings, shapeMapping(header, i, FieldDescription, analysis.HasHeader))
			analysis.Mappings[len(analysis.Mappings)-1].Confidence = confidenceDescription
		}
	}

	// Paired inflow/outflow headers make a lone amount column meaningless;
	// the two layouts are mutually exclusive.
	if analysis.InflowIndex() >= 0 && analysis.OutflowIndex() >= 0 {
		analysis.HasInOutColumns = true
		filtered := analysis.Mappings[:0]
		for _, m := range analysis.Mappings {
			if m.Field != FieldAmount {
				filtered = append(filtered, m)
			}
		}
		analysis.Mappings = filtered
	}

	analysis.DateFormat = dateFormatHint(dataRows, analysis.IndexOf(FieldDate))
	return analysis
}

// IsStandardTemplate recognizes the fixed template header
// data,descricao,tipo,valor,categoria,conta (fast path, no inference).
func IsStandardTemplate(header []string) bool {
	want := []string{"data", "descricao", "tipo", "valor", "categoria", "conta"}
	if len(header) != len(want) {
		return false
	}
	for i, cell := range header {
		if normalize.Fold(cell) != want[i] {
			return false
		}
	}
	return true
}

// StandardTemplate is the pre-built analysis for the standard CSV
// template.
func StandardTemplate(sep rune) *CSVAnalysis {
	return &CSVAnalysis{
		Separator:  string(sep),
		HasHeader:  true,
		DateFormat: "DD/MM/YYYY",
		Mappings: []ColumnMapping{
			{Label: "data", Index: 0, Field: FieldDate, Confidence: 1},
			{Label: "descricao", Index: 1, Field: FieldDescription, Confidence: 1},
			{Label: "valor", Index: 3, Field: FieldAmount, Confidence: 1},
			{Label: "categoria", Index: 4, Field: FieldCategory, Confidence: 1},
		},
	}
}

func nonEmptyLines(content string) []string {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func readRecords(content string, sep rune) [][]string {
	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		var out [][]string
		for _, line := range nonEmptyLines(content) {
			out = append(out, strings.Split(line, string(sep)))
		}
		return out
	}
	return records
}

func rowWidth(records [][]string) int {
	width := 0
	for _, r := range records {
		if len(r) > width {
			width = len(r)
		}
	}
	return width
}

func shapeCounts(rows [][]string, col int) (dates, amounts int) {
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		value := row[col]
		if _, ok := normalize.ParseDate(value); ok {
			dates++
			continue
		}
		if _, ok := normalize.ParseNumber(value); ok {
			amounts++
		}
	}
	return dates, amounts
}

func shapeMapping(header []string, index int, field Field, hasHeader bool) ColumnMapping {
	label := ""
	if hasHeader && index < len(header) {
		label = strings.TrimSpace(header[index])
	}
	return ColumnMapping{Label: label, Index: index, Field: field, Confidence: confidenceShape}
}

func longestTextColumn(rows [][]string, width int, mapped map[int]bool) int {
	best, bestAvg := -1, 0.0
	for i := 0; i < width; i++ {
		if mapped[i] {
			continue
		}
		total, count := 0, 0
		for _, row := range rows {
			if i >= len(row) {
				continue
			}
			if _, ok := normalize.ParseNumber(row[i]); ok {
				continue
			}
			total += len(strings.TrimSpace(row[i]))
			count++
		}
		if count == 0 {
			continue
		}
		if avg := float64(total) / float64(count); avg > bestAvg {
			best, bestAvg = i, avg
		}
	}
	if bestAvg == 0 {
		return -1
	}
	return best
}

func dateFormatHint(rows [][]string, dateCol int) string {
	if dateCol < 0 {
		return ""
	}
	for _, row := range rows {
		if dateCol >= len(row) {
			continue
		}
		value := strings.TrimSpace(row[dateCol])
		parts := strings.FieldsFunc(value, func(r rune) bool { return r == '/' || r == '-' })
		if len(parts) != 3 {
			continue
		}
		if len(parts[0]) == 4 {
			return "YYYY-MM-DD"
		}
		if first := parts[0]; len(first) <= 2 {
			if n, ok := normalize.ParseNumber(first); ok && n > 12 {
				return "DD/MM/YYYY"
			}
		}
		if n, ok := normalize.ParseNumber(parts[1]); ok && n > 12 {
			return "MM/DD/YYYY"
		}
	}
	return "DD/MM/YYYY"
}
