// Package csvimport parses CSV uploads for bulk record imports. Files
// exported from hospital information systems vary in delimiter and often
// carry a UTF-8 BOM, so the parser detects both before handing rows to the
// caller.
package csvimport

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Parser reads a headered CSV stream row by row.
type Parser struct {
	delimiter rune
	headers   []string
	headerIdx map[string]int
	line      int
	reader    *csv.Reader
}

// Option configures a Parser.
type Option func(*Parser)

// WithDelimiter overrides the field delimiter. Spreadsheets configured for
// Spanish locales commonly export semicolon-separated files.
func WithDelimiter(d rune) Option {
	return func(p *Parser) {
		p.delimiter = d
	}
}

// NewParser wraps a reader, strips a UTF-8 BOM if present and verifies the
// content is valid UTF-8.
func NewParser(r io.Reader, opts ...Option) (*Parser, error) {
	p := &Parser{
		delimiter: ',',
		headerIdx: make(map[string]int),
	}
	for _, opt := range opts {
		opt(p)
	}

	buf := bufio.NewReader(r)

	head, err := buf.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
		_, _ = buf.Discard(3)
	}

	if err := checkUTF8(buf); err != nil {
		return nil, err
	}

	p.reader = csv.NewReader(buf)
	p.reader.Comma = p.delimiter
	p.reader.LazyQuotes = true
	p.reader.TrimLeadingSpace = true
	p.reader.FieldsPerRecord = -1

	return p, nil
}

func checkUTF8(r *bufio.Reader) error {
	const sample = 4096
	content, err := r.Peek(sample)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file for encoding check: %w", err)
	}
	if len(content) == 0 {
		return ErrEmptyFile
	}
	if !utf8.Valid(content) {
		return ErrInvalidEncoding
	}
	return nil
}

// ParseHeader reads the header row. Header names are trimmed and lowercased
// so "Document_Number" and "document_number" address the same column.
func (p *Parser) ParseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	p.headers = make([]string, len(record))
	for i, h := range record {
		name := strings.ToLower(strings.TrimSpace(h))
		p.headers[i] = name
		p.headerIdx[name] = i
	}
	p.line = 1

	if len(p.headers) == 0 {
		return ErrMissingHeader
	}
	return nil
}

// Headers returns the parsed header names in file order.
func (p *Parser) Headers() []string {
	return p.headers
}

// MissingHeaders returns the required header names absent from the file.
func (p *Parser) MissingHeaders(required ...string) []string {
	var missing []string
	for _, name := range required {
		if _, ok := p.headerIdx[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Row is a parsed data row keyed by header name.
type Row struct {
	Line   int
	Fields map[string]string
}

// Get returns the trimmed value of a column, or "" when absent.
func (r *Row) Get(header string) string {
	return r.Fields[header]
}

// IsEmpty reports whether every field of the row is blank.
func (r *Row) IsEmpty() bool {
	for _, v := range r.Fields {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRow returns the next data row, or io.EOF when the file is exhausted.
func (p *Parser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	p.line++
	if err != nil {
		return nil, fmt.Errorf("malformed row at line %d: %w", p.line, err)
	}

	row := &Row{
		Line:   p.line,
		Fields: make(map[string]string, len(p.headers)),
	}
	for i, header := range p.headers {
		if i < len(record) {
			row.Fields[header] = strings.TrimSpace(record[i])
		} else {
			row.Fields[header] = ""
		}
	}
	return row, nil
}

// ReadAll reads every remaining data row, skipping blank lines.
func (p *Parser) ReadAll() ([]*Row, error) {
	var rows []*Row
	for {
		row, err := p.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, err
		}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
