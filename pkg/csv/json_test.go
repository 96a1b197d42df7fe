package csv

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// TestJSONReader tests rows encode as ordered JSON objects
func TestJSONReader(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		hasHeader bool
		want      []string
	}{
		{
			name:      "header",
			input:     "id,word\n1,one\n2\n",
			hasHeader: true,
			want:      []string{`{"id":"1","word":"one"}`, `{"id":"2","word":null}`},
		},
		{
			name:      "positional",
			input:     "1,one\n",
			hasHeader: false,
			want:      []string{`{"Column0":"1","Column1":"one"}`},
		},
		{
			name:      "escaping",
			input:     "text\n\"say \"\"hi\"\"\r\nbye\"\n",
			hasHeader: true,
			want:      []string{`{"text":"say \"hi\"\r\nbye"}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultReaderOptions()
			opts.HasHeader = tt.hasHeader
			r, err := NewJSONReader(strings.NewReader(tt.input), opts)
			if err != nil {
				t.Fatalf("NewJSONReader() error = %v", err)
			}
			rows := readAll(t, r)
			if len(rows) != len(tt.want) {
				t.Fatalf("got %d rows, want %d", len(rows), len(tt.want))
			}
			for i, row := range rows {
				if string(row) != tt.want[i] {
					t.Errorf("row %d = %s, want %s", i, row, tt.want[i])
				}
			}
		})
	}
}

// TestJSONReader_WideRow tests rows wider than the header fail
func TestJSONReader_WideRow(t *testing.T) {
	r, err := NewJSONReader(strings.NewReader("a\n1,2\n"), DefaultReaderOptions())
	if err != nil {
		t.Fatalf("NewJSONReader() error = %v", err)
	}
	if _, err := r.Read(); !errors.Is(err, ErrFieldCount) {
		t.Errorf("Read() error = %v, want ErrFieldCount", err)
	}
}

// TestJSONReader_DuplicateColumn tests the first occurrence of a name wins
func TestJSONReader_DuplicateColumn(t *testing.T) {
	r, err := NewJSONReader(strings.NewReader("id,word,id\n1,one,9\n2\n"), DefaultReaderOptions())
	if err != nil {
		t.Fatalf("NewJSONReader() error = %v", err)
	}
	for _, want := range []string{`{"id":"1","word":"one"}`, `{"id":"2","word":null}`} {
		got, err := r.Read()
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if string(got) != want {
			t.Errorf("Read() = %s, want %s", got, want)
		}
	}
}

// TestWriteJSONLines tests newline-delimited output of a page
func TestWriteJSONLines(t *testing.T) {
	r, err := NewJSONReader(strings.NewReader("id\n1\n2\n3\n"), DefaultReaderOptions())
	if err != nil {
		t.Fatalf("NewJSONReader() error = %v", err)
	}

	var buf bytes.Buffer
	for page, err := range r.PageSeq(2) {
		if err != nil {
			t.Fatalf("PageSeq() error = %v", err)
		}
		if err := WriteJSONLines(&buf, page); err != nil {
			t.Fatalf("WriteJSONLines() error = %v", err)
		}
	}

	want := "{\"id\":\"1\"}\n{\"id\":\"2\"}\n{\"id\":\"3\"}\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}

	var decoded []map[string]string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var obj map[string]string
		if err := jsonStd.UnmarshalFromString(line, &obj); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", line, err)
		}
		decoded = append(decoded, obj)
	}
	if len(decoded) != 3 || decoded[2]["id"] != "3" {
		t.Errorf("decoded = %v", decoded)
	}
}
