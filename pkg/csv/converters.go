package csv

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Converter turns a field value into a typed value.
// Kind names the target type and is recorded in a Binding.
type Converter[V any] interface {
	Kind() string
	Convert(value string) (V, error)
}

// ConverterFunc is a function adapter for the Converter interface.
type ConverterFunc[V any] func(string) (V, error)

// Kind implements Converter.
func (f ConverterFunc[V]) Kind() string { return "custom" }

// Convert implements Converter.
func (f ConverterFunc[V]) Convert(value string) (V, error) {
	return f(value)
}

// StringConverter returns the field unchanged.
type StringConverter struct{}

// Kind implements Converter.
func (StringConverter) Kind() string { return "string" }

// Convert implements Converter for StringConverter.
func (StringConverter) Convert(value string) (string, error) {
	return value, nil
}

// IntConverter converts string values to int64.
type IntConverter struct {
	// Base is the numeric base for parsing (default: 10)
	Base int
}

// Kind implements Converter.
func (IntConverter) Kind() string { return "int" }

// Convert implements Converter for IntConverter. An empty field is 0.
func (c IntConverter) Convert(value string) (int64, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, nil
	}
	base := c.Base
	if base == 0 {
		base = 10
	}
	return strconv.ParseInt(v, base, 64)
}

// FloatConverter converts string values to float64.
type FloatConverter struct{}

// Kind implements Converter.
func (FloatConverter) Kind() string { return "float" }

// Convert implements Converter for FloatConverter. An empty field is 0.
func (FloatConverter) Convert(value string) (float64, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, nil
	}
	return strconv.ParseFloat(v, 64)
}

// BoolConverter converts string values to bool.
// Recognizes: true/false, 1/0, yes/no, y/n, on/off, t/f (case-insensitive)
type BoolConverter struct{}

// Kind implements Converter.
func (BoolConverter) Kind() string { return "bool" }

// Convert implements Converter for BoolConverter. An empty field is false.
func (BoolConverter) Convert(value string) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "":
		return false, nil
	case "true", "1", "yes", "y", "on", "t":
		return true, nil
	case "false", "0", "no", "n", "off", "f":
		return false, nil
	default:
		return false, fmt.Errorf("cannot convert %q to bool", value)
	}
}

// DecimalConverter converts string values to arbitrary-precision decimals.
type DecimalConverter struct{}

// Kind implements Converter.
func (DecimalConverter) Kind() string { return "decimal" }

// Convert implements Converter for DecimalConverter. An empty field is 0.
func (DecimalConverter) Convert(value string) (decimal.Decimal, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(v)
}

// DateLayouts are tried in order by a DateConverter without a Format.
var DateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006",
	"02-Jan-2006",
}

// DateConverter converts string values to time.Time.
type DateConverter struct {
	// Format is the layout to parse with (default: each of DateLayouts)
	Format string
	// Location is the timezone for parsing (default: UTC)
	Location *time.Location
}

// Kind implements Converter.
func (DateConverter) Kind() string { return "date" }

// Convert implements Converter for DateConverter. An empty field is the zero time.
func (c DateConverter) Convert(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, nil
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	if c.Format != "" {
		return time.ParseInLocation(c.Format, v, loc)
	}

	var firstErr error
	for _, layout := range DateLayouts {
		t, err := time.ParseInLocation(layout, v, loc)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

type nullable[V any] struct {
	conv Converter[V]
}

// Nullable wraps conv so that an empty field or a failed conversion yields
// nil instead of an error.
func Nullable[V any](conv Converter[V]) Converter[*V] {
	return nullable[V]{conv: conv}
}

func (n nullable[V]) Kind() string { return "nullable " + n.conv.Kind() }

func (n nullable[V]) Convert(value string) (*V, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	v, err := n.conv.Convert(value)
	if err != nil {
		return nil, nil
	}
	return &v, nil
}
