package table

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies which variant of a Cell is set.
type Kind uint8

const (
	// KindNull marks a missing value (CSV empty field, null marker, NaN).
	KindNull Kind = iota
	// KindBool holds a boolean.
	KindBool
	// KindNumber holds a float64.
	KindNumber
	// KindText holds a raw string.
	KindText
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Cell is a single loosely typed table value.
type Cell struct {
	kind Kind
	b    bool
	n    float64
	s    string
}

// Null returns the null cell.
func Null() Cell { return Cell{} }

// Bool returns a boolean cell.
func Bool(b bool) Cell { return Cell{kind: KindBool, b: b} }

// Number returns a numeric cell. NaN is stored as null.
func Number(f float64) Cell {
	if math.IsNaN(f) {
		return Null()
	}
	return Cell{kind: KindNumber, n: f}
}

// Text returns a text cell. The value is kept untrimmed.
func Text(s string) Cell { return Cell{kind: KindText, s: s} }

// Kind reports the cell variant.
func (c Cell) Kind() Kind { return c.kind }

// IsNull reports whether the cell carries no value at all.
func (c Cell) IsNull() bool { return c.kind == KindNull }

// String renders the cell for matching and comparison.
// Null renders as the empty string; numbers use the shortest decimal form.
func (c Cell) String() string {
	switch c.kind {
	case KindBool:
		return strconv.FormatBool(c.b)
	case KindNumber:
		return strconv.FormatFloat(c.n, 'f', -1, 64)
	case KindText:
		return c.s
	default:
		return ""
	}
}

// Trimmed returns String() with surrounding whitespace removed.
func (c Cell) Trimmed() string {
	return strings.TrimSpace(c.String())
}

// HasValue reports whether the cell is populated: not null, and
// not a text value that is blank after trimming.
func (c Cell) HasValue() bool {
	switch c.kind {
	case KindNull:
		return false
	case KindText:
		return strings.TrimSpace(c.s) != ""
	default:
		return true
	}
}

// CellOf converts a Go value into a Cell.
// Supports nil, bool, string, all int/uint widths, float32 and float64.
// Unsupported types become null.
func CellOf(v interface{}) Cell {
	switch i := v.(type) {
	case nil:
		return Null()
	case Cell:
		return i
	case bool:
		return Bool(i)
	case string:
		return Text(i)
	case *string:
		if i == nil {
			return Null()
		}
		return Text(*i)
	case int64:
		return Number(float64(i))
	case int:
		return Number(float64(i))
	case int32:
		return Number(float64(i))
	case int16:
		return Number(float64(i))
	case int8:
		return Number(float64(i))
	case uint:
		return Number(float64(i))
	case uint64:
		return Number(float64(i))
	case uint32:
		return Number(float64(i))
	case uint16:
		return Number(float64(i))
	case uint8:
		return Number(float64(i))
	case float64:
		return Number(i)
	case float32:
		return Number(float64(i))
	default:
		return Null()
	}
}

// CellsOf converts a slice of Go values with CellOf.
func CellsOf(values ...interface{}) []Cell {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = CellOf(v)
	}
	return cells
}
