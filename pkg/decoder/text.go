package decoder

import (
	"encoding/csv"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// DecodeText decodes statement bytes as UTF-8, falling back to ISO-8859-1
// when the result carries replacement characters. Brazilian bank exports
// are frequently Latin-1.
func DecodeText(data []byte) string {
	text := string(data)
	if !strings.ContainsRune(text, '�') {
		return text
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return text
	}
	return string(decoded)
}

// separatorCandidates in preference order for ties.
var separatorCandidates = []rune{';', ',', '\t'}

// DetectSeparator samples up to ten non-empty lines and picks the
// delimiter with a consistent non-zero count across all of them. Returns 0
// when no delimiter qualifies (fixed-width layout).
func DetectSeparator(lines []string) rune {
	sample := make([]string, 0, 10)
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		sample = append(sample, line)
		if len(sample) == 10 {
			break
		}
	}
	if len(sample) == 0 {
		return 0
	}

	best := rune(0)
	bestCount := 0
	for _, cand := range separatorCandidates {
		count := sepCount(sample[0], cand)
		if count <= 0 {
			continue
		}
		consistent := true
		for _, line := range sample[1:] {
			if sepCount(line, cand) != count {
				consistent = false
				break
			}
		}
		if consistent && count > bestCount {
			best = cand
			bestCount = count
		}
	}
	return best
}

// decimalComma matches a comma acting as a decimal separator ("150,00"),
// which must not count as a field delimiter.
var decimalComma = regexp.MustCompile(`\d,\d{2}(?:\D|$)`)

func sepCount(line string, cand rune) int {
	n := strings.Count(line, string(cand))
	if cand == ',' {
		n -= len(decimalComma.FindAllString(line, -1))
	}
	return n
}

var fixedWidthSplit = regexp.MustCompile(`\s{2,}`)

type textDecoder struct{}

func (textDecoder) Decode(data []byte) (Matrix, error) {
	text := DecodeText(data)
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil, ErrEmptyFile
	}

	sep := DetectSeparator(lines)
	if sep == 0 {
		// Fixed-width: columns separated by runs of two or more spaces.
		matrix := make(Matrix, 0, len(lines))
		for _, line := range lines {
			matrix = append(matrix, textRow(fixedWidthSplit.Split(strings.TrimSpace(line), -1)))
		}
		return matrix, nil
	}

	reader := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		// Quoting too broken for a CSV reader; split naively per line.
		matrix := make(Matrix, 0, len(lines))
		for _, line := range lines {
			matrix = append(matrix, textRow(strings.Split(line, string(sep))))
		}
		return matrix, nil
	}

	matrix := make(Matrix, 0, len(records))
	for _, rec := range records {
		matrix = append(matrix, textRow(rec))
	}
	if len(matrix) == 0 {
		return nil, ErrEmptyFile
	}
	return matrix, nil
}

func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	blanks := 0
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			blanks++
			continue
		}
		// Interior blank lines stay so the table extractor can apply its
		// blank-row rules; trailing ones are dropped here.
		for ; blanks > 0 && len(lines) > 0; blanks-- {
			lines = append(lines, "")
		}
		blanks = 0
		lines = append(lines, line)
	}
	return lines
}
