// Package catalog holds the spreadsheet side of the product catalog: the record read from a
// sheet row, the positional row parser and the validity filter applied before reconciliation.
package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCategory is used when the category cell is blank.
const DefaultCategory = "Other"

// Column positions in the sheet. Seeds carry one extra column.
const (
	colName = iota
	colImageURL
	colPrice
	colQuantity
	colCategory
	colDescription
	colPlantingInstructions
)

// Record is one parsed spreadsheet row. Name is the identity key; the sheet has no stable id.
type Record struct {
	Name                 string          `json:"name"`
	ImageURL             string          `json:"imageUrl"`
	Price                decimal.Decimal `json:"price"`
	Quantity             int             `json:"quantity"`
	Category             string          `json:"category"`
	Description          string          `json:"description,omitempty"`
	PlantingInstructions string          `json:"plantingInstructions,omitempty"`
}

// Valid reports whether the record may enter the catalog: a name and a positive price.
func (r Record) Valid() bool {
	return r.Name != "" && r.Price.GreaterThan(decimal.Zero)
}

// ParseRow maps cells positionally onto a Record. Missing trailing cells read as blank.
// Text cells are kept exactly as read since the name is matched byte for byte.
// Malformed numbers degrade to zero.
func ParseRow(cells []string) Record {
	rec := Record{
		Name:                 cell(cells, colName),
		ImageURL:             cell(cells, colImageURL),
		Price:                parsePrice(cell(cells, colPrice)),
		Quantity:             parseQuantity(cell(cells, colQuantity)),
		Category:             cell(cells, colCategory),
		Description:          cell(cells, colDescription),
		PlantingInstructions: cell(cells, colPlantingInstructions),
	}
	if rec.Category == "" {
		rec.Category = DefaultCategory
	}
	return rec
}

// ParseRows parses every row and drops the invalid ones, preserving order.
func ParseRows(rows [][]string) []Record {
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec := ParseRow(row)
		if !rec.Valid() {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// DuplicateNames returns the names appearing more than once, in first-seen order.
func DuplicateNames(records []Record) []string {
	seen := make(map[string]int, len(records))
	var dups []string
	for _, r := range records {
		seen[r.Name]++
		if seen[r.Name] == 2 {
			dups = append(dups, r.Name)
		}
	}
	return dups
}

func cell(cells []string, i int) string {
	if i >= len(cells) {
		return ""
	}
	return cells[i]
}

var (
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
)

// parsePrice reads the leading decimal number of the cell ("3.50 /lb" -> 3.50).
// Anything unreadable or negative is zero.
func parsePrice(s string) decimal.Decimal {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return decimal.Zero
	}
	m = strings.TrimPrefix(m, "+")
	if strings.HasPrefix(m, ".") {
		m = "0" + m
	}
	d, err := decimal.NewFromString(strings.Replace(m, ".e", "e", 1))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// parseQuantity reads the leading integer of the cell ("12 bunches" -> 12, "2.7" -> 2).
// Anything unreadable or negative is zero.
func parseQuantity(s string) int {
	m := leadingInt.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
