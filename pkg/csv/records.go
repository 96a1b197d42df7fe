package csv

import "io"

// RecordMapper passes field arrays through unchanged.
// Rows are []string and pages are [][]string.
type RecordMapper struct {
	columns []string
	page    [][]string
}

// NewRecordMapper creates a RecordMapper.
func NewRecordMapper() *RecordMapper {
	return &RecordMapper{}
}

// NewRecordReader creates a Reader producing raw field arrays.
func NewRecordReader(src io.Reader, opts ReaderOptions) (*Reader[[]string, [][]string], error) {
	return NewReader[[]string, [][]string](src, NewRecordMapper(), opts)
}

// SetColumnNames implements Mapper.
func (m *RecordMapper) SetColumnNames(names []string) {
	m.columns = names
}

// Columns returns the captured header, or nil.
func (m *RecordMapper) Columns() []string {
	return m.columns
}

// MakeRow implements Mapper.
func (m *RecordMapper) MakeRow(fields []string) ([]string, error) {
	return fields, nil
}

// AddRow implements Mapper.
func (m *RecordMapper) AddRow(row []string) {
	m.page = append(m.page, row)
}

// PageLen implements Mapper.
func (m *RecordMapper) PageLen() int {
	return len(m.page)
}

// NextPage implements Mapper.
func (m *RecordMapper) NextPage() {
	m.page = nil
}

// Page implements Mapper. An empty page is a non-nil, zero-length slice.
func (m *RecordMapper) Page() [][]string {
	if m.page == nil {
		m.page = [][]string{}
	}
	return m.page
}
