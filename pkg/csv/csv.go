// Package csv reads delimited text into typed rows and fixed-size pages.
//
// A Reader tokenizes a character stream one row at a time and hands each
// field array to a Mapper, which decides what a row is (a []string, a Record,
// a bound struct, a JSON object) and what a page of rows is (a slice, a
// Document, an Arrow batch). Rows can be consumed one by one through Read,
// All or a Scanner, or grouped into pages through Pages, PageSeq or ReadPage.
// Input is read lazily, so memory stays proportional to one page.
//
// # Quoting
//
// A field that begins with a double quote is quoted: delimiters, CR and LF
// inside it are literal and "" stands for one quote. A quote anywhere else is
// an ordinary character. CR outside quotes is dropped, so CRLF and LF line
// endings read the same.
//
// # Thread Safety
//
// A Reader and its Mapper are not safe for concurrent use. Pages handed out
// by a Pager are never mutated afterwards and may be passed to other
// goroutines.
//
// # Example usage with Pages:
//
//	file, err := os.Open("data.csv")
//	if err != nil {
//	    // handle error
//	}
//	defer file.Close()
//
//	r, err := csv.NewDocumentReader(file, csv.DefaultReaderOptions())
//	if err != nil {
//	    // handle error
//	}
//	pager := r.Pages(1000)
//	for pager.Next() {
//	    doc := pager.Page()
//	    fmt.Println(doc.RecordCount())
//	}
//	if err := pager.Err(); err != nil {
//	    // handle error
//	}
package csv

import (
	"io"

	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/shapestone/shape-csvpage/internal/tokenizer"
)

// Format returns the format identifier for this package.
func Format() string {
	return "CSV"
}

// ParseReader reads all of src into a single Document and returns it as an
// AST: an *ast.ArrayDataNode whose first element is the header row (when
// opts.HasHeader is set) followed by one *ast.ArrayDataNode per record.
//
// Example:
//
//	node, err := csv.ParseReader(strings.NewReader("name,age\nAlice,30"), csv.DefaultReaderOptions())
//	records := node.Elements()
//	// records[0] is the header row
//	// records[1] is the first data row
func ParseReader(src io.Reader, opts ReaderOptions) (*ast.ArrayDataNode, error) {
	r, err := NewDocumentReader(src, opts)
	if err != nil {
		return nil, err
	}
	doc, ok, err := r.ReadPage()
	if err != nil {
		return nil, err
	}
	if !ok {
		columns, _ := r.Columns()
		doc = NewDocument(columns)
	}
	return doc.ToAST(), nil
}

// Validate checks that src tokenizes cleanly under opts without building
// any rows. It returns nil for valid input, a *ParseError for malformed
// quoting, or the read error from src.
//
//	if err := csv.Validate(file, csv.DefaultReaderOptions()); err != nil {
//	    fmt.Println("Invalid CSV:", err)
//	}
func Validate(src io.Reader, opts ReaderOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	tok := tokenizer.New(src, opts.tokenizerOptions())
	for {
		_, err := tok.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
