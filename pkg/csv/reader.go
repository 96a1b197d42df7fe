package csv

import (
	"errors"
	"io"
	"iter"
	"log/slog"

	"github.com/shapestone/shape-csvpage/internal/tokenizer"
)

// Reader produces mapped rows and pages from a delimited character stream.
//
// Nothing is read until the first call to Read, Columns, a Scanner or a Pager.
// A Reader is single-pass: rows consumed through one view (Read, Scanner, All,
// Pages) are not seen again by another. It is not safe for concurrent use.
// Closing the underlying io.Reader is the caller's responsibility.
type Reader[R, P any] struct {
	tok    *tokenizer.Tokenizer
	mapper Mapper[R, P]
	opts   ReaderOptions

	headerRead bool
	columns    []string
	rows       int
	err        error
}

// NewReader creates a Reader that tokenizes src and maps rows with mapper.
//
// Example:
//
//	file, _ := os.Open("data.csv")
//	defer file.Close()
//
//	r, err := csv.NewReader(file, csv.NewRecordMapper(), csv.DefaultReaderOptions())
//	if err != nil {
//	    // handle error
//	}
//	for row, err := range r.All() {
//	    // ...
//	}
func NewReader[R, P any](src io.Reader, mapper Mapper[R, P], opts ReaderOptions) (*Reader[R, P], error) {
	if src == nil {
		return nil, errors.New("csv: reader source cannot be nil")
	}
	if mapper == nil {
		return nil, errors.New("csv: mapper cannot be nil")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Reader[R, P]{
		tok:    tokenizer.New(src, opts.tokenizerOptions()),
		mapper: mapper,
		opts:   opts,
	}, nil
}

// NewReaderFromString creates a Reader over in-memory CSV text.
func NewReaderFromString[R, P any](input string, mapper Mapper[R, P], opts ReaderOptions) (*Reader[R, P], error) {
	if mapper == nil {
		return nil, errors.New("csv: mapper cannot be nil")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Reader[R, P]{
		tok:    tokenizer.NewFromString(input, opts.tokenizerOptions()),
		mapper: mapper,
		opts:   opts,
	}, nil
}

// Columns returns the header row, reading it if necessary.
// It returns nil when HasHeader is false or the input is empty.
func (r *Reader[R, P]) Columns() ([]string, error) {
	if err := r.readHeader(); err != nil {
		return nil, err
	}
	if r.columns == nil {
		return nil, nil
	}
	columns := make([]string, len(r.columns))
	copy(columns, r.columns)
	return columns, nil
}

// Read maps and returns the next data row.
// It returns io.EOF when the input is exhausted. A tokenizer or mapper error
// stops the Reader: every later call returns the same error.
func (r *Reader[R, P]) Read() (R, error) {
	var zero R
	if err := r.readHeader(); err != nil {
		return zero, err
	}

	fields, err := r.tok.Next()
	if err != nil {
		if err != io.EOF {
			r.err = err
		}
		return zero, err
	}

	r.rows++
	row, err := r.mapper.MakeRow(fields)
	if err != nil {
		r.err = &RowError{Row: r.rows, Line: r.tok.Line(), Err: err}
		return zero, r.err
	}
	return row, nil
}

// RowCount returns the number of data rows read so far.
func (r *Reader[R, P]) RowCount() int {
	return r.rows
}

// All returns an iterator over the remaining rows. Iteration stops after the
// first error, which is yielded with a zero row.
func (r *Reader[R, P]) All() iter.Seq2[R, error] {
	return func(yield func(R, error) bool) {
		for {
			row, err := r.Read()
			if err == io.EOF {
				return
			}
			if !yield(row, err) || err != nil {
				return
			}
		}
	}
}

// Scanner returns a Scanner over the remaining rows.
func (r *Reader[R, P]) Scanner() *Scanner[R] {
	return &Scanner[R]{src: r}
}

func (r *Reader[R, P]) readHeader() error {
	if r.err != nil {
		return r.err
	}
	if r.headerRead || !r.opts.HasHeader {
		return nil
	}

	names, err := r.tok.Next()
	if err == io.EOF {
		r.headerRead = true
		r.debug("csv: empty input, no header captured")
		return nil
	}
	if err != nil {
		r.err = err
		return err
	}

	r.headerRead = true
	r.columns = names
	r.mapper.SetColumnNames(names)
	r.debug("csv: header captured", slog.Int("columns", len(names)))
	return nil
}

func (r *Reader[R, P]) debug(msg string, args ...any) {
	if r.opts.Logger != nil {
		r.opts.Logger.Debug(msg, args...)
	}
}
