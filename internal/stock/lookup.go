package stock

import (
	"strings"

	"github.com/rs/zerolog/log"

	"sismed_stock/internal/sheets"
)

const (
	// LookupRange is read from the lookup spreadsheet: code, name, presentation.
	LookupRange = "Sheet1!A:C"

	fallbackLookupName         = "Nombre Desconocido"
	fallbackLookupPresentation = "S/P"
)

// LookupEntry is one medicine from the lookup table.
type LookupEntry struct {
	Code         string
	Name         string
	Presentation string
}

// LookupTable maps a trimmed medicine code to its entry.
type LookupTable map[string]LookupEntry

// BuildLookupTable indexes the lookup range by code. The header row and rows
// without a code are skipped; for duplicate codes the first row wins.
func BuildLookupTable(values [][]interface{}) LookupTable {
	table := make(LookupTable)
	if len(values) == 0 {
		return table
	}

	duplicates := 0
	for i, row := range values[1:] {
		raw, ok := sheets.CellAt(row, 0).Raw()
		if !ok || raw == "" {
			continue
		}
		code := strings.TrimSpace(raw)
		if code == "" {
			continue
		}
		if _, exists := table[code]; exists {
			duplicates++
			log.Debug().
				Int("row", i+2).
				Str("code", code).
				Msg("Ignoring duplicate lookup code")
			continue
		}

		table[code] = LookupEntry{
			Code:         code,
			Name:         nonEmptyOr(sheets.CellAt(row, 1), fallbackLookupName),
			Presentation: nonEmptyOr(sheets.CellAt(row, 2), fallbackLookupPresentation),
		}
	}

	log.Debug().
		Int("rows", len(values)-1).
		Int("entries", len(table)).
		Int("duplicates", duplicates).
		Msg("Built lookup table")
	return table
}

// Find returns the entry for a code; empty codes never match.
func (t LookupTable) Find(code string) (LookupEntry, bool) {
	if code == "" {
		return LookupEntry{}, false
	}
	entry, ok := t[code]
	return entry, ok
}

func nonEmptyOr(c sheets.Cell, fallback string) string {
	if s, ok := c.Raw(); ok && s != "" {
		return s
	}
	return fallback
}
