// Package arrowcsv pages CSV input into Apache Arrow record batches.
//
// Every column is a nullable utf8 column named after the header, or Column0,
// Column1, ... when the input has no header row. A row shorter than the
// column set is padded with nulls.
//
//	r, err := arrowcsv.NewReader(file, csv.DefaultReaderOptions(), memory.NewGoAllocator())
//	if err != nil {
//	    // handle error
//	}
//	for batch, err := range r.PageSeq(1024) {
//	    if err != nil {
//	        // handle error
//	    }
//	    process(batch)
//	    batch.Release()
//	}
package arrowcsv

import (
	"fmt"
	"io"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/shapestone/shape-csvpage/pkg/csv"
)

// Mapper implements csv.Mapper with []string rows and arrow.Record pages.
//
// Rows are buffered until Page builds a record from them, so Page may be
// called at any point and rows can still be added afterwards. Every record
// returned by Page is new and owned by the caller, who must Release it.
// The Mapper itself holds no Arrow memory between calls.
type Mapper struct {
	mem    memory.Allocator
	schema *arrow.Schema
	rows   [][]string
}

// NewMapper creates a Mapper allocating from mem. A nil mem uses the Go heap.
func NewMapper(mem memory.Allocator) *Mapper {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	return &Mapper{mem: mem}
}

// NewReader creates a csv.Reader producing Arrow record batches.
func NewReader(src io.Reader, opts csv.ReaderOptions, mem memory.Allocator) (*csv.Reader[[]string, arrow.Record], error) {
	return csv.NewReader[[]string, arrow.Record](src, NewMapper(mem), opts)
}

// Schema returns the batch schema, or nil before the first row or header.
func (m *Mapper) Schema() *arrow.Schema {
	return m.schema
}

// SetColumnNames implements csv.Mapper.
func (m *Mapper) SetColumnNames(names []string) {
	fields := make([]arrow.Field, len(names))
	for i, name := range names {
		fields[i] = arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: true}
	}
	m.schema = arrow.NewSchema(fields, nil)
}

// MakeRow implements csv.Mapper.
func (m *Mapper) MakeRow(fields []string) ([]string, error) {
	if m.schema == nil {
		names := make([]string, len(fields))
		for i := range names {
			names[i] = "Column" + strconv.Itoa(i)
		}
		m.SetColumnNames(names)
	}
	if width := m.schema.NumFields(); len(fields) > width {
		return nil, fmt.Errorf("%w: got %d, expected at most %d", csv.ErrFieldCount, len(fields), width)
	}
	return fields, nil
}

// AddRow implements csv.Mapper.
func (m *Mapper) AddRow(row []string) {
	m.rows = append(m.rows, row)
}

// PageLen implements csv.Mapper.
func (m *Mapper) PageLen() int {
	return len(m.rows)
}

// Page implements csv.Mapper. It builds a record from the rows added since
// the last NextPage without consuming them.
func (m *Mapper) Page() arrow.Record {
	if m.schema == nil {
		m.SetColumnNames(nil)
	}
	b := array.NewRecordBuilder(m.mem, m.schema)
	defer b.Release()

	for i := 0; i < m.schema.NumFields(); i++ {
		col := b.Field(i).(*array.StringBuilder)
		for _, row := range m.rows {
			if i < len(row) {
				col.Append(row[i])
			} else {
				col.AppendNull()
			}
		}
	}
	return b.NewRecord()
}

// NextPage implements csv.Mapper. Records already returned stay valid.
func (m *Mapper) NextPage() {
	m.rows = nil
}
