package arrowcsv

import (
	"errors"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/shapestone/shape-csvpage/pkg/csv"
)

func stringColumn(t *testing.T, batch arrow.Record, i int) *array.String {
	t.Helper()
	col, ok := batch.Column(i).(*array.String)
	if !ok {
		t.Fatalf("column %d is %T, want *array.String", i, batch.Column(i))
	}
	return col
}

func TestMapper_Pages(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	m := NewMapper(mem)

	r, err := csv.NewReaderFromString[[]string, arrow.Record]("id,word\n1,one\n2,two\n3,three\n4,four\n5,five\n", m, csv.DefaultReaderOptions())
	if err != nil {
		t.Fatalf("NewReaderFromString() error = %v", err)
	}

	var sizes []int64
	var ids []string
	for batch, err := range r.PageSeq(2) {
		if err != nil {
			t.Fatalf("PageSeq() error = %v", err)
		}
		if got := batch.ColumnName(0); got != "id" {
			t.Errorf("ColumnName(0) = %q, want %q", got, "id")
		}
		sizes = append(sizes, batch.NumRows())
		col := stringColumn(t, batch, 0)
		for j := 0; j < col.Len(); j++ {
			ids = append(ids, col.Value(j))
		}
		batch.Release()
	}

	if len(sizes) != 3 || sizes[0] != 2 || sizes[1] != 2 || sizes[2] != 1 {
		t.Errorf("page sizes = %v, want [2 2 1]", sizes)
	}
	if got := strings.Join(ids, ","); got != "1,2,3,4,5" {
		t.Errorf("ids = %q, want %q", got, "1,2,3,4,5")
	}
}

func TestMapper_PositionalNamesAndNulls(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	m := NewMapper(mem)

	opts := csv.DefaultReaderOptions()
	opts.HasHeader = false
	r, err := csv.NewReaderFromString[[]string, arrow.Record]("a,b,c\nd\n", m, opts)
	if err != nil {
		t.Fatalf("NewReaderFromString() error = %v", err)
	}

	batch, ok, err := r.ReadPage()
	if err != nil || !ok {
		t.Fatalf("ReadPage() = %v, %v", ok, err)
	}
	defer batch.Release()

	for i, want := range []string{"Column0", "Column1", "Column2"} {
		if got := batch.ColumnName(i); got != want {
			t.Errorf("ColumnName(%d) = %q, want %q", i, got, want)
		}
	}
	if batch.NumRows() != 2 {
		t.Fatalf("NumRows() = %d, want 2", batch.NumRows())
	}
	if col := stringColumn(t, batch, 2); col.IsNull(0) || !col.IsNull(1) {
		t.Errorf("Column2 nulls = [%v %v], want [false true]", col.IsNull(0), col.IsNull(1))
	}
	if got := stringColumn(t, batch, 0).Value(1); got != "d" {
		t.Errorf("Column0[1] = %q, want %q", got, "d")
	}
}

func TestMapper_WideRow(t *testing.T) {
	m := NewMapper(nil)

	r, err := csv.NewReaderFromString[[]string, arrow.Record]("a,b\n1,2,3\n", m, csv.DefaultReaderOptions())
	if err != nil {
		t.Fatalf("NewReaderFromString() error = %v", err)
	}
	_, _, err = r.ReadPage()
	if !errors.Is(err, csv.ErrFieldCount) {
		t.Errorf("ReadPage() error = %v, want ErrFieldCount", err)
	}
	var rowErr *csv.RowError
	if !errors.As(err, &rowErr) || rowErr.Row != 1 {
		t.Errorf("ReadPage() error = %v, want RowError for row 1", err)
	}
}

func TestMapper_PageIsNonDestructive(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	m := NewMapper(mem)
	m.SetColumnNames([]string{"a"})
	m.AddRow([]string{"1"})

	first := m.Page()
	defer first.Release()
	m.AddRow([]string{"2"})
	second := m.Page()
	defer second.Release()

	if first.NumRows() != 1 {
		t.Errorf("first Page() NumRows() = %d after AddRow, want 1", first.NumRows())
	}
	if second.NumRows() != 2 || m.PageLen() != 2 {
		t.Fatalf("second Page() NumRows() = %d, PageLen() = %d, want 2, 2", second.NumRows(), m.PageLen())
	}
	if got := stringColumn(t, second, 0).Value(1); got != "2" {
		t.Errorf("a[1] = %q, want %q", got, "2")
	}

	m.NextPage()
	empty := m.Page()
	defer empty.Release()
	if empty.NumRows() != 0 || empty.NumCols() != 1 {
		t.Errorf("Page() after NextPage() = %d rows, %d cols, want 0, 1", empty.NumRows(), empty.NumCols())
	}
}

func TestNewReader_ReleasesMemory(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	opts := csv.DefaultReaderOptions()
	opts.HasHeader = false
	r, err := NewReader(strings.NewReader("1,a\n2,b\n3\n"), opts, mem)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}

	var rows int64
	for batch, err := range r.PageSeq(2) {
		if err != nil {
			t.Fatalf("PageSeq() error = %v", err)
		}
		rows += batch.NumRows()
		batch.Release()
	}
	if rows != 3 {
		t.Errorf("got %d rows, want 3", rows)
	}
}

func TestNewReader_EmptyInput(t *testing.T) {
	r, err := NewReader(strings.NewReader(""), csv.DefaultReaderOptions(), nil)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	_, ok, err := r.ReadPage()
	if ok || err != nil {
		t.Errorf("ReadPage() = %v, %v, want false, nil", ok, err)
	}
}
