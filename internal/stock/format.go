package stock

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"sismed_stock/internal/sheets"
)

// Column positions in the primary range.
const (
	codeIndex      = 1
	stockIndex     = 2
	priceIndex     = 3
	stockDateIndex = 4
)

const (
	unknownName     = "Desconocido"
	notAvailable    = "N/A"
	pricePrefix     = "S/ "
	zeroPrice       = "S/ 0.00"
	priceFractional = 2
	groupSeparator  = ","
)

// OutputRow is one formatted row. It encodes as a five element JSON array.
type OutputRow struct {
	Name         string
	Presentation string
	StockDate    string
	Stock        string
	Price        string
}

// HeaderRow labels the columns of every response.
var HeaderRow = OutputRow{
	Name:         "MEDICAMENTO_NOMBRE",
	Presentation: "PRESENTACION",
	StockDate:    "FECHA_STOCK",
	Stock:        "STOCK",
	Price:        "STKPRECIO",
}

func (r OutputRow) Values() []string {
	return []string{r.Name, r.Presentation, r.StockDate, r.Stock, r.Price}
}

func (r OutputRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Values())
}

// FormatRows turns the primary range into output rows, header first. An empty
// range gives no rows at all.
func FormatRows(values [][]interface{}, lookup LookupTable) []OutputRow {
	rows := make([]OutputRow, 0, len(values))
	if len(values) == 0 {
		return rows
	}

	rows = append(rows, HeaderRow)
	for _, row := range values[1:] {
		rows = append(rows, FormatRow(row, lookup))
	}
	return rows
}

// FormatRow joins one primary row against the lookup table.
func FormatRow(row []interface{}, lookup LookupTable) OutputRow {
	out := OutputRow{
		Name:         unknownName,
		Presentation: notAvailable,
		StockDate:    sheets.CellAt(row, stockDateIndex).StringOr(notAvailable),
		Stock:        sheets.CellAt(row, stockIndex).StringOr(notAvailable),
		Price:        FormatPrice(sheets.CellAt(row, priceIndex)),
	}

	code, _ := sheets.CellAt(row, codeIndex).Raw()
	if entry, ok := lookup.Find(strings.TrimSpace(code)); ok {
		out.Name = entry.Name
		out.Presentation = entry.Presentation
	}
	return out
}

// FormatPrice renders a price as "S/ 12.50". Anything that is not a finite
// number renders as "S/ 0.00". Group separators are dropped, so "1,234.5"
// reads as 1234.5. Rounding is half away from zero on the
// shortest decimal form of the value.
func FormatPrice(c sheets.Cell) string {
	var value float64
	switch c.Kind {
	case sheets.CellNumber:
		value = c.Number
	case sheets.CellText:
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(c.Text), groupSeparator, ""), 64)
		if err != nil {
			return zeroPrice
		}
		value = parsed
	default:
		return zeroPrice
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return zeroPrice
	}
	return pricePrefix + decimal.NewFromFloat(value).StringFixed(priceFractional)
}
