package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/sheets/v4"

	"ebay-sheets-sync/internal/models"
)

// Header names the tool reads and writes. All output columns must be
// present in the sheet's first row before any fetch work starts.
const (
	ColumnLink      = "link"
	ColumnPrice     = "price"
	ColumnShipping  = "shipping price"
	ColumnDelivery  = "delivery time"
	ColumnTitle     = "title"
	ColumnCondition = "condition"
	ColumnMPN       = "mpn"
	ColumnBrand     = "brand"
	ColumnModel     = "model"
)

// readRange is wide enough for any realistic sheet of this shape.
const readRange = "A1:Z1000"

// ConfigError is a fatal pre-run problem with the sheet layout, such as
// a missing required column. It aborts the run before any fetch work.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return "sheet configuration: " + e.Message
}

// ColumnMap holds the 0-based index of every required column.
type ColumnMap struct {
	Link      int
	Price     int
	Shipping  int
	Delivery  int
	Title     int
	Condition int
	MPN       int
	Brand     int
	Model     int
}

// MapColumns resolves every required column against the header row.
// Output columns match case-sensitively; the link column alone is
// matched case-insensitively. Any missing name is a *ConfigError.
func MapColumns(header []string) (*ColumnMap, error) {
	cols := &ColumnMap{}

	link, ok := findColumnFold(header, ColumnLink)
	if !ok {
		return nil, &ConfigError{Message: fmt.Sprintf("column %q not found in header row", ColumnLink)}
	}
	cols.Link = link

	for _, target := range []struct {
		name string
		dst  *int
	}{
		{ColumnPrice, &cols.Price},
		{ColumnShipping, &cols.Shipping},
		{ColumnDelivery, &cols.Delivery},
		{ColumnTitle, &cols.Title},
		{ColumnCondition, &cols.Condition},
		{ColumnMPN, &cols.MPN},
		{ColumnBrand, &cols.Brand},
		{ColumnModel, &cols.Model},
	} {
		idx, ok := findColumn(header, target.name)
		if !ok {
			return nil, &ConfigError{Message: fmt.Sprintf("column %q not found in header row", target.name)}
		}
		*target.dst = idx
	}

	return cols, nil
}

func findColumn(header []string, name string) (int, bool) {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i, true
		}
	}
	return 0, false
}

func findColumnFold(header []string, name string) (int, bool) {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i, true
		}
	}
	return 0, false
}

// ReadRows fetches the sheet once and returns the header row plus one
// Row per data row. Row indices are 1-based sheet positions, so the
// first data row is 2. Links are trimmed; empty links are kept here and
// skipped by the runner.
func ReadRows(ctx context.Context, client *Client, spreadsheetID, sheetName string) ([]string, []models.Row, error) {
	values, err := client.ReadSheet(ctx, spreadsheetID, sheetName+"!"+readRange)
	if err != nil {
		return nil, nil, err
	}
	if len(values) == 0 {
		return nil, nil, &ConfigError{Message: "sheet is empty, no header row"}
	}

	header := make([]string, len(values[0]))
	for i, cell := range values[0] {
		header[i] = fmt.Sprintf("%v", cell)
	}

	linkCol, ok := findColumnFold(header, ColumnLink)
	if !ok {
		return nil, nil, &ConfigError{Message: fmt.Sprintf("column %q not found in header row", ColumnLink)}
	}

	var rows []models.Row
	for i, raw := range values[1:] {
		link := ""
		if len(raw) > linkCol && raw[linkCol] != nil {
			link = strings.TrimSpace(fmt.Sprintf("%v", raw[linkCol]))
		}
		rows = append(rows, models.Row{
			Index: i + 2,
			Link:  link,
		})
	}

	slog.Debug("read sheet rows", "rows", len(rows), "columns", len(header))
	return header, rows, nil
}

// CellUpdate is one targeted write: a value for a specific row and
// column. Column is the 0-based header index.
type CellUpdate struct {
	Row    int
	Column int
	Value  string
}

// BuildUpdates turns run results into cell updates. Each successful row
// contributes one update per field that was actually found on the page;
// absent fields leave the existing cell alone. Failed rows contribute
// nothing — failures are reported in logs, not written into data
// columns.
func BuildUpdates(cols *ColumnMap, results []models.RowResult) []CellUpdate {
	var updates []CellUpdate

	add := func(row, col int, value string) {
		updates = append(updates, CellUpdate{Row: row, Column: col, Value: value})
	}

	for _, res := range results {
		if res.Item == nil {
			continue
		}

		item := res.Item
		row := res.Row.Index

		if item.Price.Found {
			add(row, cols.Price, item.Price.Value)
		}
		if item.Shipping.Found {
			add(row, cols.Shipping, item.Shipping.Value)
		}
		if item.Delivery.Found {
			add(row, cols.Delivery, item.Delivery.String())
		}
		if item.Title.Found {
			add(row, cols.Title, item.Title.Value)
		}
		if item.Condition.Found {
			add(row, cols.Condition, item.Condition.Value)
		}
		if item.MPN.Found {
			add(row, cols.MPN, item.MPN.Value)
		}
		if item.Brand.Found {
			add(row, cols.Brand, item.Brand.Value)
		}
		if item.Model.Found {
			add(row, cols.Model, item.Model.Value)
		}
	}

	return updates
}

// Apply commits the whole batch in a single call. A failure here loses
// the run's writes and is the run's terminal error; partial batches are
// never attempted.
func Apply(ctx context.Context, client *Client, spreadsheetID, sheetName string, updates []CellUpdate) error {
	if len(updates) == 0 {
		slog.Debug("no cell updates to apply")
		return nil
	}

	data := make([]*sheets.ValueRange, 0, len(updates))
	for _, u := range updates {
		data = append(data, &sheets.ValueRange{
			Range:  fmt.Sprintf("%s!%s%d", sheetName, ColumnLetter(u.Column+1), u.Row),
			Values: [][]interface{}{{u.Value}},
		})
	}

	if err := client.BatchUpdate(ctx, spreadsheetID, data); err != nil {
		return err
	}

	slog.Info("applied cell updates", "updates", len(updates))
	return nil
}

// ColumnLetter converts a 1-based column index to its A1 letter form
// (A, B, ..., Z, AA, AB, ...).
func ColumnLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
