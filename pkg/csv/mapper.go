package csv

// Mapper turns field arrays into rows of type R and assembles rows into
// pages of type P. A Reader drives exactly one Mapper; mappers are not safe
// for concurrent use.
//
// Page lifecycle: AddRow appends to the page being built, PageLen reports its
// size, Page exposes it, and NextPage abandons it in favour of a fresh page.
// A page returned by Page must stay valid after NextPage; mappers never
// mutate a page once a new one has been started.
type Mapper[R, P any] interface {
	// SetColumnNames receives the header row. It is called at most once,
	// before the first MakeRow, and only when the input declares a header.
	SetColumnNames(names []string)

	// MakeRow converts one field array. It may depend only on the fields and
	// the captured column names.
	MakeRow(fields []string) (R, error)

	// AddRow appends row to the current page.
	AddRow(row R)

	// PageLen returns the number of rows in the current page.
	PageLen() int

	// NextPage starts a fresh, empty page.
	NextPage()

	// Page returns the current, possibly partial, page.
	Page() P
}
