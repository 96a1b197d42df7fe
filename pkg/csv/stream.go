package csv

import "io"

type rowSource[R any] interface {
	Read() (R, error)
}

// Scanner provides a streaming interface for reading mapped rows one at a time.
// Each call to Scan reads and maps exactly one row.
//
// Example usage:
//
//	file, _ := os.Open("data.csv")
//	defer file.Close()
//
//	r, _ := csv.NewDocumentReader(file, csv.DefaultReaderOptions())
//	scanner := r.Scanner()
//	for scanner.Scan() {
//	    record := scanner.Row()
//	    name, _ := record.GetByName("name")
//	    fmt.Println(name)
//	}
//	if err := scanner.Err(); err != nil {
//	    // handle error
//	}
type Scanner[R any] struct {
	src  rowSource[R]
	row  R
	err  error
	done bool
}

// Scan advances the scanner to the next row.
// It returns false when there are no more rows or an error occurs.
// After Scan returns false, the Err method will return any error that occurred.
func (s *Scanner[R]) Scan() bool {
	if s.done {
		return false
	}

	row, err := s.src.Read()
	if err != nil {
		var zero R
		s.row = zero
		s.done = true
		if err != io.EOF {
			s.err = err
		}
		return false
	}
	s.row = row
	return true
}

// Row returns the current row.
// This should only be called after Scan() returns true.
func (s *Scanner[R]) Row() R {
	return s.row
}

// Err returns the error, if any, that was encountered during scanning.
// It returns nil if no error occurred or at EOF.
func (s *Scanner[R]) Err() error {
	return s.err
}
