package sheets

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type CellKind int

const (
	CellAbsent CellKind = iota
	CellText
	CellNumber
)

// Cell is one value of a range response. The API returns strings for
// formatted values and numbers for unformatted ones; columns past the end of
// a row, and nulls, are absent.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

func TextCell(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

func NumberCell(f float64) Cell {
	return Cell{Kind: CellNumber, Number: f}
}

// CellAt returns the cell at index, or an absent cell when the row is shorter.
func CellAt(row []interface{}, index int) Cell {
	if index < 0 || index >= len(row) {
		return Cell{}
	}
	return NewCell(row[index])
}

// NewCell converts a decoded JSON value into a Cell.
func NewCell(v interface{}) Cell {
	switch value := v.(type) {
	case nil:
		return Cell{}
	case string:
		return TextCell(value)
	case float64:
		return NumberCell(value)
	case float32:
		return NumberCell(float64(value))
	case int:
		return NumberCell(float64(value))
	case int64:
		return NumberCell(float64(value))
	case json.Number:
		if f, err := value.Float64(); err == nil {
			return NumberCell(f)
		}
		return TextCell(value.String())
	default:
		return TextCell(fmt.Sprint(value))
	}
}

func (c Cell) IsAbsent() bool {
	return c.Kind == CellAbsent
}

// Raw returns the cell as raw text; ok is false for absent cells.
func (c Cell) Raw() (s string, ok bool) {
	switch c.Kind {
	case CellText:
		return c.Text, true
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64), true
	default:
		return "", false
	}
}

// StringOr returns the raw text, or fallback when the cell is absent.
func (c Cell) StringOr(fallback string) string {
	if s, ok := c.Raw(); ok {
		return s
	}
	return fallback
}
