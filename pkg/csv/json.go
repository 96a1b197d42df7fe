package csv

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

var jsonStd = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONMapper encodes each row as a JSON object keyed by column name, in
// column order. Without a header row, keys are Column0, Column1, ... from the
// width of the first data row. Missing trailing fields are encoded as null.
// When a header repeats a name, the first column with that name is encoded
// and later ones are skipped, matching ObjectMapper.
type JSONMapper struct {
	columns []string
	skip    []bool
	page    []jsoniter.RawMessage
}

// NewJSONMapper creates a JSONMapper.
func NewJSONMapper() *JSONMapper {
	return &JSONMapper{}
}

// NewJSONReader creates a Reader producing JSON objects.
func NewJSONReader(src io.Reader, opts ReaderOptions) (*Reader[jsoniter.RawMessage, []jsoniter.RawMessage], error) {
	return NewReader[jsoniter.RawMessage, []jsoniter.RawMessage](src, NewJSONMapper(), opts)
}

// SetColumnNames implements Mapper.
func (m *JSONMapper) SetColumnNames(names []string) {
	m.columns = names
	m.skip = make([]bool, len(names))
	seen := make(map[string]struct{}, len(names))
	for i, name := range names {
		if _, dup := seen[name]; dup {
			m.skip[i] = true
			continue
		}
		seen[name] = struct{}{}
	}
}

// MakeRow implements Mapper.
func (m *JSONMapper) MakeRow(fields []string) (jsoniter.RawMessage, error) {
	if m.columns == nil {
		m.SetColumnNames(positionalNames(len(fields)))
	}
	if len(fields) > len(m.columns) {
		return nil, fieldCountError(len(fields), len(m.columns))
	}

	stream := jsonStd.BorrowStream(nil)
	defer jsonStd.ReturnStream(stream)

	stream.WriteObjectStart()
	first := true
	for i, name := range m.columns {
		if m.skip[i] {
			continue
		}
		if !first {
			stream.WriteMore()
		}
		first = false
		stream.WriteObjectField(name)
		if i < len(fields) {
			stream.WriteString(fields[i])
		} else {
			stream.WriteNil()
		}
	}
	stream.WriteObjectEnd()
	if stream.Error != nil {
		return nil, stream.Error
	}
	return append(jsoniter.RawMessage(nil), stream.Buffer()...), nil
}

// AddRow implements Mapper.
func (m *JSONMapper) AddRow(row jsoniter.RawMessage) {
	m.page = append(m.page, row)
}

// PageLen implements Mapper.
func (m *JSONMapper) PageLen() int {
	return len(m.page)
}

// NextPage implements Mapper.
func (m *JSONMapper) NextPage() {
	m.page = nil
}

// Page implements Mapper.
func (m *JSONMapper) Page() []jsoniter.RawMessage {
	if m.page == nil {
		m.page = []jsoniter.RawMessage{}
	}
	return m.page
}

// WriteJSONLines writes a page as newline-delimited JSON.
func WriteJSONLines(w io.Writer, page []jsoniter.RawMessage) error {
	for _, row := range page {
		if _, err := w.Write(row); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
