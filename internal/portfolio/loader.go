package portfolio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ErrInputUnavailable is returned when the static holdings source cannot be
// read or parsed. It is the only failure that aborts an enrichment call.
var ErrInputUnavailable = errors.New("portfolio input unavailable")

// Row is one raw spreadsheet row as produced by the offline sheet-to-JSON
// conversion: column identifier to untyped cell value.
type Row map[string]any

// Columns names the spreadsheet columns the loader reads.
type Columns struct {
	Number        string `json:"number"`
	Name          string `json:"name"`
	PurchasePrice string `json:"purchase_price"`
	Qty           string `json:"qty"`
	Symbol        string `json:"symbol"`
	CMP           string `json:"cmp"`
	Stage2        string `json:"stage2"`
	// HeaderMarker identifies sector group rows in the name column.
	HeaderMarker string `json:"header_marker"`
}

// DefaultColumns matches the layout of the exported portfolio sheet.
func DefaultColumns() Columns {
	return Columns{
		Number:        "__EMPTY",
		Name:          "__EMPTY_1",
		PurchasePrice: "__EMPTY_2",
		Qty:           "__EMPTY_3",
		Symbol:        "__EMPTY_6",
		CMP:           "__EMPTY_7",
		Stage2:        "__EMPTY_30",
		HeaderMarker:  "Sector",
	}
}

// Loader reads holdings from a JSON file of raw rows.
type Loader struct {
	Path    string
	Columns Columns
}

// Load reads and cleans the holdings file. Any read or decode failure is
// reported wrapped in ErrInputUnavailable.
func (l Loader) Load() ([]Holding, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputUnavailable, err)
	}
	defer f.Close()

	rows, err := Decode(f)
	if err != nil {
		return nil, err
	}
	return Clean(rows, l.Columns), nil
}

// Decode parses a JSON array of rows.
func Decode(r io.Reader) ([]Row, error) {
	var rows []Row
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: decode rows: %w", ErrInputUnavailable, err)
	}
	return rows, nil
}

// Clean keeps the rows that describe a position and maps them to holdings.
// A row is kept when its number column holds a number and its name column is a
// non-empty string without the header marker. Marker rows are dropped but name
// the sector of the holdings listed below them.
func Clean(rows []Row, cols Columns) []Holding {
	out := make([]Holding, 0, len(rows))
	sector := ""
	for _, row := range rows {
		name, _ := row[cols.Name].(string)
		name = strings.TrimSpace(name)
		if name != "" && cols.HeaderMarker != "" && strings.Contains(name, cols.HeaderMarker) {
			sector = name
			continue
		}
		if _, ok := row[cols.Number].(float64); !ok || name == "" {
			continue
		}
		out = append(out, Holding{
			Company:       name,
			Symbol:        text(row[cols.Symbol]),
			PurchasePrice: number(row[cols.PurchasePrice]),
			Qty:           number(row[cols.Qty]),
			CMP:           number(row[cols.CMP]),
			Sector:        sector,
			Stage2:        text(row[cols.Stage2]),
		})
	}
	return out
}

// number coerces a cell the way a spreadsheet export is usually read:
// numbers pass through, numeric strings are parsed, anything else is zero.
func number(v any) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case json.Number:
		f, _ = x.Float64()
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		var err error
		if f, err = strconv.ParseFloat(s, 64); err != nil {
			return 0
		}
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func text(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}
