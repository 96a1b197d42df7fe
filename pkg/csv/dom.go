package csv

import (
	"io"
	"strconv"
	"strings"

	"github.com/shapestone/shape-core/pkg/ast"
)

// Document is a tabular page: named columns plus the records added to it.
//
//	doc := pager.Page()
//	for _, record := range doc.Records() {
//	    id, _ := record.GetByName("id")
//	}
type Document struct {
	headers []string
	records [][]string
	comma   rune
}

// Record is a single row with access by position or by column name.
type Record struct {
	fields  []string
	headers []string
}

// NewDocument creates an empty Document with the given column names.
func NewDocument(headers []string) *Document {
	return &Document{
		headers: headers,
		records: make([][]string, 0),
		comma:   ',',
	}
}

// Headers returns the column names.
func (d *Document) Headers() []string {
	return d.headers
}

// AddRecord adds a record to the document.
// Returns the Document for method chaining.
func (d *Document) AddRecord(fields []string) *Document {
	d.records = append(d.records, fields)
	return d
}

// Records returns all records as Record values.
func (d *Document) Records() []Record {
	records := make([]Record, len(d.records))
	for i, fields := range d.records {
		records[i] = Record{fields: fields, headers: d.headers}
	}
	return records
}

// RecordCount returns the number of records, not counting the header.
func (d *Document) RecordCount() int {
	return len(d.records)
}

// GetRecord returns the record at the specified 0-based index.
// Returns (Record, false) if the index is out of bounds.
func (d *Document) GetRecord(index int) (Record, bool) {
	if index < 0 || index >= len(d.records) {
		return Record{}, false
	}
	return Record{fields: d.records[index], headers: d.headers}, true
}

// CSV renders the Document as delimited text: the header row followed by all
// records. Fields containing the delimiter, a quote, CR or LF are quoted.
func (d *Document) CSV() (string, error) {
	var sb strings.Builder
	if err := d.Render(&sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Render writes the Document to w in the same format as CSV.
func (d *Document) Render(w io.Writer) error {
	if len(d.headers) > 0 {
		if err := writeRecord(w, d.headers, d.comma); err != nil {
			return err
		}
	}
	for _, record := range d.records {
		if err := writeRecord(w, record, d.comma); err != nil {
			return err
		}
	}
	return nil
}

// writeRecord writes one record, doubling embedded quotes.
func writeRecord(w io.Writer, fields []string, comma rune) error {
	var sb strings.Builder
	special := string(comma) + "\"\r\n"
	for i, field := range fields {
		if i > 0 {
			sb.WriteRune(comma)
		}
		// A lone empty field is quoted so the row is not read back as blank.
		if !strings.ContainsAny(field, special) && (field != "" || len(fields) > 1) {
			sb.WriteString(field)
			continue
		}
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(field, `"`, `""`))
		sb.WriteByte('"')
	}
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return err
}

// ToAST converts the Document to an AST ArrayDataNode whose first element is
// the header row, followed by one ArrayDataNode of literals per record.
func (d *Document) ToAST() *ast.ArrayDataNode {
	all := make([]ast.SchemaNode, 0, len(d.records)+1)
	if len(d.headers) > 0 {
		all = append(all, literalRow(d.headers))
	}
	for _, record := range d.records {
		all = append(all, literalRow(record))
	}
	return ast.NewArrayDataNode(all, ast.ZeroPosition())
}

func literalRow(fields []string) *ast.ArrayDataNode {
	nodes := make([]ast.SchemaNode, len(fields))
	for i, f := range fields {
		nodes[i] = ast.NewLiteralNode(f, ast.ZeroPosition())
	}
	return ast.NewArrayDataNode(nodes, ast.ZeroPosition())
}

// Get gets the field value at the specified 0-based index.
// Returns (value, false) if the index is out of bounds.
func (r Record) Get(index int) (string, bool) {
	if index < 0 || index >= len(r.fields) {
		return "", false
	}
	return r.fields[index], true
}

// GetByName gets the field value by column name.
// Returns (value, false) if the name is unknown or the record is shorter
// than the header.
func (r Record) GetByName(name string) (string, bool) {
	for i, header := range r.headers {
		if header == name {
			return r.Get(i)
		}
	}
	return "", false
}

// Fields returns a copy of the field values.
func (r Record) Fields() []string {
	fields := make([]string, len(r.fields))
	copy(fields, r.fields)
	return fields
}

// Headers returns the column names shared by the record's page.
func (r Record) Headers() []string {
	return r.headers
}

// Len returns the number of fields in the record.
func (r Record) Len() int {
	return len(r.fields)
}

// DocumentMapper builds Document pages. Without a header row, columns are
// named Column0, Column1, ... from the width of the first data row.
type DocumentMapper struct {
	headers []string
	comma   rune
	page    *Document
}

// NewDocumentMapper creates a DocumentMapper whose pages render with comma.
func NewDocumentMapper(comma rune) *DocumentMapper {
	if comma == 0 {
		comma = ','
	}
	return &DocumentMapper{comma: comma}
}

// NewDocumentReader creates a Reader producing Record rows and Document pages.
func NewDocumentReader(src io.Reader, opts ReaderOptions) (*Reader[Record, *Document], error) {
	return NewReader[Record, *Document](src, NewDocumentMapper(opts.Comma), opts)
}

// SetColumnNames implements Mapper.
func (m *DocumentMapper) SetColumnNames(names []string) {
	m.headers = names
}

// MakeRow implements Mapper. A row wider than the column set fails with
// ErrFieldCount; shorter rows are kept and read as missing trailing fields.
func (m *DocumentMapper) MakeRow(fields []string) (Record, error) {
	if m.headers == nil {
		m.headers = positionalNames(len(fields))
	}
	if len(fields) > len(m.headers) {
		return Record{}, fieldCountError(len(fields), len(m.headers))
	}
	return Record{fields: fields, headers: m.headers}, nil
}

// AddRow implements Mapper.
func (m *DocumentMapper) AddRow(row Record) {
	m.current().AddRecord(row.fields)
}

// PageLen implements Mapper.
func (m *DocumentMapper) PageLen() int {
	if m.page == nil {
		return 0
	}
	return m.page.RecordCount()
}

// NextPage implements Mapper. The new page shares the column names.
func (m *DocumentMapper) NextPage() {
	m.page = nil
}

// Page implements Mapper.
func (m *DocumentMapper) Page() *Document {
	return m.current()
}

func (m *DocumentMapper) current() *Document {
	if m.page == nil {
		m.page = NewDocument(m.headers)
		m.page.comma = m.comma
	}
	return m.page
}

func positionalNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = "Column" + strconv.Itoa(i)
	}
	return names
}
