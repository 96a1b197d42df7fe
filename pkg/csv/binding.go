package csv

import (
	"fmt"
	"io"
)

// AfterMapper is implemented by row types that finish their own construction.
// AfterMapping is called on each row after all bound columns are set.
type AfterMapper interface {
	AfterMapping()
}

// ColumnBinding describes one entry of a Binding.
type ColumnBinding struct {
	Column string
	Kind   string
}

type fieldBinding[T any] struct {
	column string
	kind   string
	set    func(dst *T, raw string) error
}

// Binding declares how columns populate a value of type T.
//
// Example:
//
//	type Item struct {
//	    ID    int64
//	    Word  string
//	    Due   *time.Time
//	    Extra map[string]string
//	}
//
//	b := csv.NewBinding[Item]()
//	csv.Bind(b, "id", csv.IntConverter{}, func(it *Item, v int64) { it.ID = v })
//	csv.Bind(b, "date", csv.Nullable[time.Time](csv.DateConverter{}), func(it *Item, v *time.Time) { it.Due = v })
//	b.String("word", func(it *Item, v string) { it.Word = v }).
//	    Remaining(func(it *Item, rest map[string]string) { it.Extra = rest })
type Binding[T any] struct {
	fields    []fieldBinding[T]
	remaining func(dst *T, rest map[string]string)
	after     func(dst *T) error
}

// NewBinding creates an empty Binding.
func NewBinding[T any]() *Binding[T] {
	return &Binding[T]{}
}

// Bind maps column to a setter through conv. A conversion error is reported
// as a *ConversionError; wrap conv with Nullable to get nil instead.
// Returns b for method chaining.
func Bind[T, V any](b *Binding[T], column string, conv Converter[V], set func(dst *T, v V)) *Binding[T] {
	b.fields = append(b.fields, fieldBinding[T]{
		column: column,
		kind:   conv.Kind(),
		set: func(dst *T, raw string) error {
			v, err := conv.Convert(raw)
			if err != nil {
				return &ConversionError{Column: column, Value: raw, Err: err}
			}
			set(dst, v)
			return nil
		},
	})
	return b
}

// String maps column to a string setter.
func (b *Binding[T]) String(column string, set func(dst *T, v string)) *Binding[T] {
	return Bind(b, column, StringConverter{}, set)
}

// Remaining receives every column that no Bind call names, keyed by column
// name. It is only called when such columns exist.
func (b *Binding[T]) Remaining(set func(dst *T, rest map[string]string)) *Binding[T] {
	b.remaining = set
	return b
}

// After registers a hook run on each row after all columns are set and
// before AfterMapping.
func (b *Binding[T]) After(fn func(dst *T) error) *Binding[T] {
	b.after = fn
	return b
}

// Columns returns the binding table in declaration order.
func (b *Binding[T]) Columns() []ColumnBinding {
	cols := make([]ColumnBinding, len(b.fields))
	for i, f := range b.fields {
		cols[i] = ColumnBinding{Column: f.column, Kind: f.kind}
	}
	return cols
}

// ObjectMapper builds values of type T through a Binding.
// Rows are T and pages are []T. It requires a header row.
type ObjectMapper[T any] struct {
	binding *Binding[T]
	columns []string
	index   []int // column position per field binding, -1 if absent
	rest    []int // positions of columns no binding names
	page    []T
}

// NewObjectMapper creates an ObjectMapper for binding.
func NewObjectMapper[T any](binding *Binding[T]) *ObjectMapper[T] {
	return &ObjectMapper[T]{binding: binding}
}

// NewObjectReader creates a Reader producing values of type T.
func NewObjectReader[T any](src io.Reader, binding *Binding[T], opts ReaderOptions) (*Reader[T, []T], error) {
	return NewReader[T, []T](src, NewObjectMapper(binding), opts)
}

// SetColumnNames implements Mapper and resolves the binding against names.
// When a name repeats, the first occurrence wins.
func (m *ObjectMapper[T]) SetColumnNames(names []string) {
	m.columns = names

	position := make(map[string]int, len(names))
	for i, name := range names {
		if _, ok := position[name]; !ok {
			position[name] = i
		}
	}

	bound := make(map[string]bool, len(m.binding.fields))
	m.index = make([]int, len(m.binding.fields))
	for i, f := range m.binding.fields {
		bound[f.column] = true
		if pos, ok := position[f.column]; ok {
			m.index[i] = pos
		} else {
			m.index[i] = -1
		}
	}

	m.rest = m.rest[:0]
	for i, name := range names {
		if !bound[name] {
			m.rest = append(m.rest, i)
		}
	}
}

// MakeRow implements Mapper.
func (m *ObjectMapper[T]) MakeRow(fields []string) (T, error) {
	var v T
	if m.columns == nil {
		return v, ErrNoHeader
	}

	for i, f := range m.binding.fields {
		pos := m.index[i]
		if pos < 0 {
			return v, fmt.Errorf("%w: %q", ErrColumnNotFound, f.column)
		}
		if pos >= len(fields) {
			return v, fmt.Errorf("%w: column %q is at position %d but the row has %d fields",
				ErrFieldCount, f.column, pos+1, len(fields))
		}
		if err := f.set(&v, fields[pos]); err != nil {
			return v, err
		}
	}

	if m.binding.remaining != nil && len(m.rest) > 0 {
		rest := make(map[string]string, len(m.rest))
		for _, pos := range m.rest {
			if pos >= len(fields) {
				return v, fmt.Errorf("%w: column %q is at position %d but the row has %d fields",
					ErrFieldCount, m.columns[pos], pos+1, len(fields))
			}
			rest[m.columns[pos]] = fields[pos]
		}
		m.binding.remaining(&v, rest)
	}

	if m.binding.after != nil {
		if err := m.binding.after(&v); err != nil {
			return v, err
		}
	}
	if am, ok := any(&v).(AfterMapper); ok {
		am.AfterMapping()
	}
	return v, nil
}

// AddRow implements Mapper.
func (m *ObjectMapper[T]) AddRow(row T) {
	m.page = append(m.page, row)
}

// PageLen implements Mapper.
func (m *ObjectMapper[T]) PageLen() int {
	return len(m.page)
}

// NextPage implements Mapper.
func (m *ObjectMapper[T]) NextPage() {
	m.page = nil
}

// Page implements Mapper.
func (m *ObjectMapper[T]) Page() []T {
	if m.page == nil {
		m.page = []T{}
	}
	return m.page
}
