package stock

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sismed_stock/internal/sheets"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name string
		cell sheets.Cell
		want string
	}{
		{"decimal text", sheets.TextCell("12.5"), "S/ 12.50"},
		{"integer text", sheets.TextCell("0"), "S/ 0.00"},
		{"not a number", sheets.TextCell("abc"), "S/ 0.00"},
		{"empty text", sheets.TextCell(""), "S/ 0.00"},
		{"absent", sheets.Cell{}, "S/ 0.00"},
		{"surrounding spaces", sheets.TextCell(" 3.1 "), "S/ 3.10"},
		{"rounds half away from zero", sheets.TextCell("0.125"), "S/ 0.13"},
		{"rounds shortest form", sheets.TextCell("2.675"), "S/ 2.68"},
		{"rounds down", sheets.TextCell("1.234"), "S/ 1.23"},
		{"negative", sheets.TextCell("-4.5"), "S/ -4.50"},
		{"exponent", sheets.TextCell("1e3"), "S/ 1000.00"},
		{"thousands separator", sheets.TextCell("1,234.50"), "S/ 1234.50"},
		{"millions separators", sheets.TextCell("1,234,567.891"), "S/ 1234567.89"},
		{"comma read as group separator", sheets.TextCell("12,5"), "S/ 125.00"},
		{"separator only", sheets.TextCell(","), "S/ 0.00"},
		{"infinity rejected", sheets.TextCell("Inf"), "S/ 0.00"},
		{"nan rejected", sheets.TextCell("NaN"), "S/ 0.00"},
		{"number cell", sheets.NumberCell(5.5), "S/ 5.50"},
		{"number cell infinity", sheets.NumberCell(math.Inf(1)), "S/ 0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.cell))
		})
	}
}

func TestFormatRowJoinsLookup(t *testing.T) {
	lookup := LookupTable{
		"A1": {Code: "A1", Name: "Paracetamol", Presentation: "X"},
	}

	row := []interface{}{"x", "A1", "10", "5.5", "2024-01-01"}
	got := FormatRow(row, lookup)

	assert.Equal(t, OutputRow{
		Name:         "Paracetamol",
		Presentation: "X",
		StockDate:    "2024-01-01",
		Stock:        "10",
		Price:        "S/ 5.50",
	}, got)
}

func TestFormatRowTrimsCode(t *testing.T) {
	lookup := LookupTable{"A1": {Code: "A1", Name: "Paracetamol", Presentation: "X"}}

	got := FormatRow([]interface{}{"x", "  A1 "}, lookup)

	assert.Equal(t, "Paracetamol", got.Name)
	assert.Equal(t, "X", got.Presentation)
}

func TestFormatRowFallbacks(t *testing.T) {
	lookup := LookupTable{"A1": {Code: "A1", Name: "Paracetamol", Presentation: "X"}}

	tests := []struct {
		name string
		row  []interface{}
		want OutputRow
	}{
		{
			name: "unknown code",
			row:  []interface{}{"x", "ZZ", "3", "1", "2024-02-02"},
			want: OutputRow{unknownName, notAvailable, "2024-02-02", "3", "S/ 1.00"},
		},
		{
			name: "empty code",
			row:  []interface{}{"x", "", "3"},
			want: OutputRow{unknownName, notAvailable, notAvailable, "3", zeroPrice},
		},
		{
			name: "short row",
			row:  []interface{}{"x"},
			want: OutputRow{unknownName, notAvailable, notAvailable, notAvailable, zeroPrice},
		},
		{
			name: "empty row",
			row:  nil,
			want: OutputRow{unknownName, notAvailable, notAvailable, notAvailable, zeroPrice},
		},
		{
			name: "present but empty stock stays empty",
			row:  []interface{}{"x", "A1", "", "2", ""},
			want: OutputRow{"Paracetamol", "X", "", "", "S/ 2.00"},
		},
		{
			name: "null cells are absent",
			row:  []interface{}{"x", nil, nil, nil, nil},
			want: OutputRow{unknownName, notAvailable, notAvailable, notAvailable, zeroPrice},
		},
		{
			name: "numeric cells",
			row:  []interface{}{"x", "A1", 12.0, 7.25, "2024-03-03"},
			want: OutputRow{"Paracetamol", "X", "2024-03-03", "12", "S/ 7.25"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRow(tt.row, lookup))
		})
	}
}

func TestFormatRowsPrependsHeaderAndKeepsOrder(t *testing.T) {
	values := [][]interface{}{
		{"H"},
		{"x", "B", "1"},
		{"x", "A", "2"},
		{"x", "C", "3"},
	}

	rows := FormatRows(values, LookupTable{})

	require.Len(t, rows, len(values))
	assert.Equal(t, HeaderRow, rows[0])
	assert.Equal(t, "1", rows[1].Stock)
	assert.Equal(t, "2", rows[2].Stock)
	assert.Equal(t, "3", rows[3].Stock)
}

func TestFormatRowsHeaderOnly(t *testing.T) {
	rows := FormatRows([][]interface{}{{"H"}}, LookupTable{})
	assert.Equal(t, []OutputRow{HeaderRow}, rows)
}

func TestFormatRowsEmptyRange(t *testing.T) {
	rows := FormatRows(nil, LookupTable{})
	require.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestOutputRowMarshalJSON(t *testing.T) {
	data, err := json.Marshal([]OutputRow{HeaderRow})
	require.NoError(t, err)
	assert.JSONEq(t, `[["MEDICAMENTO_NOMBRE","PRESENTACION","FECHA_STOCK","STOCK","STKPRECIO"]]`, string(data))
}
