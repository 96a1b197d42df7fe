package csv

import (
	"log/slog"
	"unicode/utf8"

	"github.com/shapestone/shape-csvpage/internal/tokenizer"
)

// ReaderOptions configures CSV reading behavior.
type ReaderOptions struct {
	// Comma is the field delimiter.
	// It must be a valid rune and not ", \r, \n, or the Unicode replacement character (0xFFFD).
	// Zero means ','.
	// Default: ','
	Comma rune

	// HasHeader treats the first row as column names rather than data.
	// Default: true
	HasHeader bool

	// LazyQuotes keeps the content of a quoted field left open at end of input
	// as a literal value instead of failing with ErrUnterminatedQuote.
	// Default: false
	LazyQuotes bool

	// WarningCallback is invoked for recoverable input problems (LazyQuotes).
	// If nil, warnings are only logged.
	WarningCallback func(line int, message string)

	// Logger receives debug events for header capture and page emission.
	// If nil, nothing is logged.
	Logger *slog.Logger
}

// DefaultReaderOptions returns the default reader configuration:
// comma-delimited with a header row.
func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{
		Comma:     ',',
		HasHeader: true,
	}
}

// validDelim reports whether r is a valid field delimiter.
func validDelim(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}

// Validate checks if the options are valid.
func (o ReaderOptions) Validate() error {
	comma := o.Comma
	if comma == 0 {
		comma = ','
	}
	if !validDelim(comma) {
		return &OptionsError{Field: "Comma", Message: "invalid delimiter"}
	}
	return nil
}

func (o ReaderOptions) tokenizerOptions() tokenizer.Options {
	opts := tokenizer.DefaultOptions()
	if o.Comma != 0 {
		opts.Comma = o.Comma
	}
	opts.LazyQuotes = o.LazyQuotes
	opts.WarningCallback = func(line int, message string) {
		if o.Logger != nil {
			o.Logger.Warn("csv: malformed input", slog.Int("line", line), slog.String("detail", message))
		}
		if o.WarningCallback != nil {
			o.WarningCallback(line, message)
		}
	}
	return opts
}
