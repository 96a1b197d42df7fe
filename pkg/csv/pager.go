package csv

import (
	"io"
	"iter"
	"log/slog"
	"math"
)

// Unbounded is a page size large enough to hold any input in one page.
const Unbounded = math.MaxInt

// Pager groups mapped rows into pages of at most Size rows.
//
// A page is emitted as soon as it reaches Size rows; a final partial page is
// emitted when the input runs out. Page boundaries depend only on row counts.
//
// Example usage:
//
//	pager := r.Pages(500)
//	for pager.Next() {
//	    store(pager.Page())
//	}
//	if err := pager.Err(); err != nil {
//	    // handle error
//	}
type Pager[R, P any] struct {
	r     *Reader[R, P]
	size  int
	page  P
	count int
	err   error
	done  bool
}

// Pages returns a Pager over the remaining rows of r.
// A size below 1 makes the first call to Next fail with ErrInvalidPageSize.
func (r *Reader[R, P]) Pages(size int) *Pager[R, P] {
	p := &Pager[R, P]{r: r, size: size}
	if size < 1 {
		p.err = ErrInvalidPageSize
		p.done = true
	}
	return p
}

// Next accumulates rows until a page is complete or the input is exhausted.
// It returns false when no page remains or an error occurs.
func (p *Pager[R, P]) Next() bool {
	if p.done {
		return false
	}

	m := p.r.mapper
	for {
		row, err := p.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			p.fail(err)
			return false
		}

		m.AddRow(row)
		if m.PageLen() >= p.size {
			p.emit()
			return true
		}
	}

	p.done = true
	partial := m.PageLen() > 0
	if partial {
		p.emit()
	}
	p.r.debug("csv: input exhausted", slog.Int("pages", p.count), slog.Int("rows", p.r.rows))
	return partial
}

// Page returns the most recently emitted page.
// This should only be called after Next() returns true.
func (p *Pager[R, P]) Page() P {
	return p.page
}

// Count returns the number of pages emitted so far.
func (p *Pager[R, P]) Count() int {
	return p.count
}

// Err returns the error, if any, that stopped paging.
// It returns nil if no error occurred or at EOF.
func (p *Pager[R, P]) Err() error {
	return p.err
}

func (p *Pager[R, P]) emit() {
	m := p.r.mapper
	rows := m.PageLen()
	p.page = m.Page()
	m.NextPage()
	p.count++
	p.r.debug("csv: page emitted", slog.Int("page", p.count), slog.Int("rows", rows))
}

func (p *Pager[R, P]) fail(err error) {
	var zero P
	p.page = zero
	p.err = err
	p.done = true
}

// PageSeq returns an iterator over pages of at most size rows.
// Iteration stops after the first error, which is yielded with a zero page.
func (r *Reader[R, P]) PageSeq(size int) iter.Seq2[P, error] {
	return func(yield func(P, error) bool) {
		p := r.Pages(size)
		for p.Next() {
			if !yield(p.Page(), nil) {
				return
			}
		}
		if err := p.Err(); err != nil {
			var zero P
			yield(zero, err)
		}
	}
}

// ReadPage reads the whole remaining input into a single page.
// It reports false if there were no rows.
func (r *Reader[R, P]) ReadPage() (P, bool, error) {
	p := r.Pages(Unbounded)
	if p.Next() {
		return p.Page(), true, nil
	}
	var zero P
	return zero, false, p.Err()
}
