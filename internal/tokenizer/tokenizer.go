// Package tokenizer splits a delimited character stream into field arrays.
//
// The Tokenizer is a single-pass state machine driven one rune at a time from a
// character source: a shape-core Stream for in-memory input, or a buffered
// rune reader for an io.Reader. Each call to Next yields the fields of one logical row.
// Quoting follows these rules:
//   - A quote opens a quoted region only when the current field is still empty.
//   - Inside a quoted region, "" is a literal quote and any other quote closes the region.
//   - Delimiters, CR and LF inside a quoted region are kept verbatim.
//   - A quote appearing after other content in the field is a literal character.
//
// Outside quotes, CR is dropped and LF terminates the row.
package tokenizer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	shapetokenizer "github.com/shapestone/shape-core/pkg/tokenizer"
)

const quote = '"'

// ErrUnterminatedQuote is reported when the stream ends inside a quoted field.
var ErrUnterminatedQuote = errors.New("unterminated quoted field")

// ParseError represents a parsing error with position information.
type ParseError struct {
	// StartLine is the line where the offending row started (1-indexed).
	StartLine int
	// Line is the line where the error was detected (1-indexed).
	Line int
	// Column is the column where the error was detected (1-indexed, in runes).
	Column int
	// Err is the underlying error.
	Err error
}

// Error returns a formatted error message with position information.
func (e *ParseError) Error() string {
	if e.StartLine == e.Line {
		return fmt.Sprintf("parse error on line %d, column %d: %v", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("parse error on line %d (started line %d), column %d: %v",
		e.Line, e.StartLine, e.Column, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Options configures the tokenizer behavior.
type Options struct {
	// Comma is the field delimiter. Default: ','
	Comma rune
	// LazyQuotes turns an unterminated quoted field at end of stream into a
	// literal field instead of an error.
	LazyQuotes bool
	// WarningCallback is invoked when LazyQuotes recovers from malformed input.
	WarningCallback func(line int, message string)
}

// DefaultOptions returns default tokenizer options.
func DefaultOptions() Options {
	return Options{
		Comma: ',',
	}
}

// Tokenizer produces field arrays from a character stream.
// It is not safe for concurrent use and cannot be rewound.
type Tokenizer struct {
	stream charSource
	src    *runeReader
	opts   Options

	line      int // current line, 1-indexed
	column    int // column of the last consumed rune
	startLine int // line on which the last returned row started
	width     int // field count of the previous row, used as a capacity hint

	err  error
	done bool
}

// charSource is the part of shapetokenizer.Stream the tokenizer consumes.
type charSource interface {
	NextChar() (rune, bool)
	PeekChar() (rune, bool)
}

// New creates a Tokenizer reading from r.
// Nothing is read from r until the first call to Next.
// Read errors other than io.EOF are returned unchanged by Next.
func New(r io.Reader, opts Options) *Tokenizer {
	src := &runeReader{r: r}
	t := newTokenizer(src, opts)
	t.src = src
	return t
}

// NewFromString creates a Tokenizer over an in-memory string.
func NewFromString(input string, opts Options) *Tokenizer {
	return NewFromStream(shapetokenizer.NewStream(input), opts)
}

// NewFromStream creates a Tokenizer over a pre-configured shape-core stream.
func NewFromStream(stream shapetokenizer.Stream, opts Options) *Tokenizer {
	return newTokenizer(stream, opts)
}

func newTokenizer(stream charSource, opts Options) *Tokenizer {
	if opts.Comma == 0 {
		opts.Comma = ','
	}
	return &Tokenizer{
		stream: stream,
		opts:   opts,
		line:   1,
	}
}

// Next returns the fields of the next row.
// It returns io.EOF once the stream is exhausted. Any other error is sticky.
func (t *Tokenizer) Next() ([]string, error) {
	if t.err != nil {
		return nil, t.err
	}
	if t.done {
		return nil, io.EOF
	}

	t.startLine = t.line
	fields := make([]string, 0, t.width)
	var field strings.Builder

	for {
		c, ok := t.next()
		if !ok {
			if err := t.readErr(); err != nil {
				t.err = err
				return nil, err
			}
			t.done = true
			// A lone empty field at EOF is the remainder of a trailing newline.
			if len(fields) > 0 || field.Len() > 0 {
				return t.emit(append(fields, field.String())), nil
			}
			return nil, io.EOF
		}

		switch {
		case c == '\r':
		case c == '\n':
			return t.emit(append(fields, field.String())), nil
		case c == t.opts.Comma:
			fields = append(fields, field.String())
			field.Reset()
		case c == quote && field.Len() == 0:
			if err := t.readQuoted(&field); err != nil {
				t.err = err
				return nil, err
			}
		default:
			field.WriteRune(c)
		}
	}
}

// Line returns the line on which the most recently returned row started.
func (t *Tokenizer) Line() int {
	return t.startLine
}

// readQuoted consumes a quoted region whose opening quote was already read.
func (t *Tokenizer) readQuoted(field *strings.Builder) error {
	openLine, openColumn := t.line, t.column
	for {
		c, ok := t.next()
		if !ok {
			if err := t.readErr(); err != nil {
				return err
			}
			if t.opts.LazyQuotes {
				if t.opts.WarningCallback != nil {
					t.opts.WarningCallback(openLine, fmt.Sprintf(
						"quoted field opened at column %d is not terminated; keeping content as literal", openColumn))
				}
				return nil
			}
			return &ParseError{
				StartLine: t.startLine,
				Line:      t.line,
				Column:    t.column + 1,
				Err:       ErrUnterminatedQuote,
			}
		}

		if c != quote {
			field.WriteRune(c)
			continue
		}
		if next, ok := t.stream.PeekChar(); ok && next == quote {
			t.next()
			field.WriteRune(quote)
			continue
		}
		return nil
	}
}

// next consumes one rune from the stream and updates the position.
func (t *Tokenizer) next() (rune, bool) {
	c, ok := t.stream.NextChar()
	if !ok {
		return 0, false
	}
	if c == '\n' {
		t.line++
		t.column = 0
	} else {
		t.column++
	}
	return c, true
}

func (t *Tokenizer) emit(fields []string) []string {
	t.width = len(fields)
	return fields
}

func (t *Tokenizer) readErr() error {
	if t.src == nil || t.src.err == io.EOF {
		return nil
	}
	return t.src.err
}

// runeReader decodes runes from an io.Reader across read boundaries.
// Invalid UTF-8 bytes decode as utf8.RuneError, one byte at a time.
// The buffer is allocated on first use so construction never reads.
type runeReader struct {
	r   io.Reader
	br  *bufio.Reader
	err error
}

func (s *runeReader) NextChar() (rune, bool) {
	if s.err != nil {
		return 0, false
	}
	if s.br == nil {
		s.br = bufio.NewReader(s.r)
	}
	c, _, err := s.br.ReadRune()
	if err != nil {
		s.err = err
		return 0, false
	}
	return c, true
}

func (s *runeReader) PeekChar() (rune, bool) {
	c, ok := s.NextChar()
	if ok {
		_ = s.br.UnreadRune()
	}
	return c, ok
}
