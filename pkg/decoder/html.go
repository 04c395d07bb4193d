package decoder

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// decodeHTMLTable extracts the first <table> found in an HTML document and
// returns its rows as a text matrix.
func decodeHTMLTable(data []byte) (Matrix, error) {
	doc, err := html.Parse(strings.NewReader(DecodeText(data)))
	if err != nil {
		return nil, fmt.Errorf("error parsing html table: %w", err)
	}

	table := findElement(doc, "table")
	if table == nil {
		return nil, fmt.Errorf("%w: no table element in html document", ErrEmptyFile)
	}

	var matrix Matrix
	walkElements(table, func(n *html.Node) bool { return n.Data == "tr" }, func(tr *html.Node) {
		var row Row
		walkElements(tr, func(n *html.Node) bool { return n.Data == "td" || n.Data == "th" }, func(cell *html.Node) {
			row = append(row, TextCell(strings.TrimSpace(nodeText(cell))))
		})
		matrix = append(matrix, row)
	})
	if len(matrix) == 0 {
		return nil, ErrEmptyFile
	}
	return matrix, nil
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func walkElements(n *html.Node, match func(*html.Node) bool, fn func(*html.Node)) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && match(c) {
			fn(c)
			continue
		}
		walkElements(c, match, fn)
	}
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
