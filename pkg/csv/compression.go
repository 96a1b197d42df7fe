package csv

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression identifies the encoding of an input stream.
type Compression int

const (
	// CompressionNone is plain text.
	CompressionNone Compression = iota
	CompressionGzip
	CompressionBzip2
	CompressionXZ
	CompressionZstd
)

// String returns the string representation of Compression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionBzip2:
		return "bzip2"
	case CompressionXZ:
		return "xz"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", c)
	}
}

var (
	magicGzip  = []byte{0x1f, 0x8b}
	magicBzip2 = []byte("BZh")
	// A bzip2 stream continues with a block-size digit and then either a
	// block header or, for empty input, the end-of-stream marker.
	bzip2Block = []byte{0x31, 0x41, 0x59, 0x26, 0x53, 0x59}
	bzip2End   = []byte{0x17, 0x72, 0x45, 0x38, 0x50, 0x90}
	magicXZ    = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	magicZstd  = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// DetectCompression inspects the leading bytes of a stream.
func DetectCompression(header []byte) Compression {
	switch {
	case bytes.HasPrefix(header, magicGzip):
		return CompressionGzip
	case isBzip2(header):
		return CompressionBzip2
	case bytes.HasPrefix(header, magicXZ):
		return CompressionXZ
	case bytes.HasPrefix(header, magicZstd):
		return CompressionZstd
	default:
		return CompressionNone
	}
}

// sniffLen is the number of leading bytes needed to recognise every format.
const sniffLen = 10

func isBzip2(header []byte) bool {
	if len(header) < sniffLen || !bytes.HasPrefix(header, magicBzip2) {
		return false
	}
	if level := header[3]; level < '1' || level > '9' {
		return false
	}
	block := header[4:sniffLen]
	return bytes.Equal(block, bzip2Block) || bytes.Equal(block, bzip2End)
}

// Decompress wraps src with a decoder chosen from its magic bytes, so
// compressed CSV can be streamed without a temporary file. Plain input is
// passed through. Closing the result does not close src.
//
// Example:
//
//	file, _ := os.Open("data.csv.zst")
//	defer file.Close()
//
//	plain, _, err := csv.Decompress(file)
//	if err != nil {
//	    // handle error
//	}
//	defer plain.Close()
//	r, err := csv.NewRecordReader(plain, csv.DefaultReaderOptions())
func Decompress(src io.Reader) (io.ReadCloser, Compression, error) {
	br := bufio.NewReader(src)
	header, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF {
		return nil, CompressionNone, err
	}

	kind := DetectCompression(header)
	switch kind {
	case CompressionGzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, kind, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gz, kind, nil

	case CompressionBzip2:
		return io.NopCloser(bzip2.NewReader(br)), kind, nil

	case CompressionXZ:
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, kind, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return io.NopCloser(xr), kind, nil

	case CompressionZstd:
		decoder, err := zstd.NewReader(br)
		if err != nil {
			return nil, kind, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return decoder.IOReadCloser(), kind, nil

	default:
		return io.NopCloser(br), kind, nil
	}
}
