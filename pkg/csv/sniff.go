package csv

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/shapestone/shape-csvpage/internal/tokenizer"
)

// SniffSize is the number of leading bytes SniffReader inspects.
const SniffSize = 4096

var sniffDelimiters = []rune{',', '\t', ';', '|'}

var (
	identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_ ]*$`)
	datePattern  = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}|\d{2}/\d{2}/\d{4})$`)
	numPattern   = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)$`)
)

// Sniff guesses the delimiter and header presence of a CSV sample and returns
// DefaultReaderOptions adjusted accordingly. A delimiter wins when it splits
// every sampled line into the same number of fields; otherwise the one seen
// most often on the first line wins. The first row is a header when more of
// its fields look like names than like values, ignoring names repeated in
// the same column of the second row.
func Sniff(sample string) ReaderOptions {
	opts := DefaultReaderOptions()
	lines := sampleLines(sample)
	if len(lines) == 0 {
		return opts
	}

	opts.Comma = sniffDelimiter(lines)
	opts.HasHeader = sniffHeader(lines, opts.Comma)
	return opts
}

// SniffReader runs Sniff over the first SniffSize bytes of src. The returned
// reader yields the whole input, including the sampled bytes.
func SniffReader(src io.Reader) (ReaderOptions, io.Reader, error) {
	br := bufio.NewReaderSize(src, SniffSize)
	sample, err := br.Peek(SniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return ReaderOptions{}, nil, err
	}
	return Sniff(string(sample)), br, nil
}

// sampleLines drops blank lines and a trailing line that may be truncated.
func sampleLines(sample string) []string {
	raw := strings.Split(strings.ReplaceAll(sample, "\r\n", "\n"), "\n")
	if len(raw) > 1 && !strings.HasSuffix(sample, "\n") {
		raw = raw[:len(raw)-1]
	}
	lines := raw[:0]
	for _, line := range raw {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func sniffDelimiter(lines []string) rune {
	best, bestScore := ',', 0
	for _, delim := range sniffDelimiters {
		first := len(splitLine(lines[0], delim)) - 1
		if first == 0 {
			continue
		}
		score := first
		consistent := true
		for _, line := range lines[1:] {
			if len(splitLine(line, delim))-1 != first {
				consistent = false
				break
			}
		}
		if consistent {
			score *= 10
		}
		if score > bestScore {
			best, bestScore = delim, score
		}
	}
	return best
}

func sniffHeader(lines []string, delim rune) bool {
	if len(lines) < 2 {
		return false
	}
	first := splitLine(lines[0], delim)
	second := splitLine(lines[1], delim)

	names, values := 0, 0
	for i, field := range first {
		field = strings.TrimSpace(field)
		switch {
		case looksLikeValue(field):
			values++
		case identPattern.MatchString(field):
			names++
			if i < len(second) && strings.TrimSpace(second[i]) == field {
				names--
			}
		}
	}
	return names > values
}

func looksLikeValue(s string) bool {
	return numPattern.MatchString(s) || datePattern.MatchString(s) || strings.Contains(s, "@")
}

// splitLine splits one sampled line with the tokenizer so quoted
// delimiters are not counted.
func splitLine(line string, delim rune) []string {
	opts := tokenizer.DefaultOptions()
	opts.Comma = delim
	opts.LazyQuotes = true
	fields, err := tokenizer.NewFromString(line, opts).Next()
	if err != nil {
		return []string{line}
	}
	return fields
}
