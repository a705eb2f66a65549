package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lionel-solria/deviseur/internal/domain/catalogue"
	domainerr "github.com/lionel-solria/deviseur/internal/domain/errors"
	xunicode "golang.org/x/text/encoding/unicode"
)

const (
	Delimiter = ';'
)

// 上游导出偶尔会写成 " lien"、" image"，去掉首尾空白即归到 lien、image
func normalizeHeader(h string) string {
	return strings.TrimSpace(h)
}

// ReadProducts parses a semicolon-delimited catalogue. The first record is
// the header; fully blank rows are skipped. path only labels warnings and
// errors.
func ReadProducts(r io.Reader, path string) ([]catalogue.Product, []Warning, error) {
	// 去掉 UTF-8 BOM，否则第一个列名会带上
	cr := csv.NewReader(xunicode.UTF8BOM.NewDecoder().Reader(r))
	cr.Comma = Delimiter
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	rawHeader, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, &domainerr.InputError{Path: path, Err: domainerr.ErrEmptyInput}
		}
		return nil, nil, &domainerr.InputError{Path: path, Err: err}
	}

	var warns []Warning
	headers := make([]string, len(rawHeader))
	seen := make(map[string]int, len(rawHeader))
	for i, h := range rawHeader {
		headers[i] = normalizeHeader(h)
		if prev, ok := seen[headers[i]]; ok {
			warns = append(warns, Warning{
				Path: path,
				Line: 1,
				Msg:  fmt.Sprintf("duplicate column %q (columns %d and %d), the last one wins", headers[i], prev+1, i+1),
			})
		}
		seen[headers[i]] = i
	}

	var out []catalogue.Product
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				warns = append(warns, Warning{Path: path, Line: pe.StartLine, Msg: "skipped unparsable row: " + pe.Err.Error()})
				continue
			}
			return nil, warns, &domainerr.InputError{Path: path, Err: err}
		}

		line, _ := cr.FieldPos(0)
		if catalogue.IsBlank(rec) {
			continue
		}
		if len(rec) > len(headers) && !catalogue.IsBlank(rec[len(headers):]) {
			warns = append(warns, Warning{
				Path: path,
				Line: line,
				Msg:  fmt.Sprintf("%d cells but only %d columns, extra cells ignored", len(rec), len(headers)),
			})
		}

		fields := make(map[string]string, len(headers))
		for i, h := range headers {
			if i >= len(rec) {
				break
			}
			fields[h] = rec[i]
		}
		p := catalogue.Product{Line: line, Fields: fields}
		p.Normalize()
		out = append(out, p)
	}
	return out, warns, nil
}
