// Package decoder turns raw statement bytes into a matrix of cell values.
// It handles delimited and fixed-width text, legacy BIFF .xls workbooks,
// HTML tables mislabeled as .xls, and OOXML .xlsx workbooks.
package decoder

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format is a supported statement file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTXT  Format = "txt"
	FormatXLS  Format = "xls"
	FormatXLSX Format = "xlsx"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyFile         = errors.New("file has no usable content")
)

// DetectFormat resolves the file extension to a supported format. Anything
// else is rejected with a message naming the allowed set.
func DetectFormat(fileName string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv":
		return FormatCSV, nil
	case ".txt":
		return FormatTXT, nil
	case ".xls":
		return FormatXLS, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w %q: supported extensions are .csv, .txt, .xls, .xlsx", ErrUnsupportedFormat, ext)
}

// Decoder turns file bytes into a cell matrix. Implementations exist per
// format so the pipeline has no compile-time preference for one
// spreadsheet library.
type Decoder interface {
	Decode(data []byte) (Matrix, error)
}

// ForFormat returns the decoder strategy for a detected format.
func ForFormat(format Format) (Decoder, error) {
	switch format {
	case FormatCSV, FormatTXT:
		return textDecoder{}, nil
	case FormatXLS:
		return xlsDecoder{}, nil
	case FormatXLSX:
		return xlsxDecoder{}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, format)
}

// Decode is the convenience path: detect the format from the file name and
// run the matching decoder.
func Decode(data []byte, fileName string) (Matrix, error) {
	format, err := DetectFormat(fileName)
	if err != nil {
		return nil, err
	}
	dec, err := ForFormat(format)
	if err != nil {
		return nil, err
	}
	return dec.Decode(data)
}
