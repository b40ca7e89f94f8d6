package models

// Field is an extracted cell value. Found reports whether the page
// contained the field at all; an absent field leaves the existing
// sheet cell untouched at write-back.
type Field struct {
	Value string
	Found bool
}

// FieldOf wraps a value that was found on the page.
func FieldOf(value string) Field {
	return Field{Value: value, Found: true}
}

// DeliveryField is the estimated delivery window: an ordered pair of
// date labels as shown on the page. The pair is all-or-nothing — a page
// with fewer than two date spans yields an absent field, never a
// partial pair.
type DeliveryField struct {
	Earliest string
	Latest   string
	Found    bool
}

// String renders the window the way it is written to the sheet.
func (d DeliveryField) String() string {
	return d.Earliest + " to " + d.Latest
}

// Item holds everything extracted from one product page. Every field is
// independently optional: a missing price never blocks extraction of
// the title, and so on.
type Item struct {
	Link      string
	Price     Field
	Shipping  Field
	Delivery  DeliveryField
	Title     Field
	Condition Field
	MPN       Field
	Brand     Field
	Model     Field
}

func NewItem(link string) *Item {
	return &Item{Link: link}
}

// Row is one spreadsheet record. Index is the 1-based sheet row number
// and is the stable identity used for write-back.
type Row struct {
	Index int
	Link  string
}

// FetchFailure marks a row whose page could not be fetched or parsed.
// The run continues past it; the reason only shows up in logs and the
// summary, never in data columns.
type FetchFailure struct {
	Link   string
	Reason string
}

// RowResult pairs a row with its outcome. Exactly one of Item and
// Failure is set.
type RowResult struct {
	Row     Row
	Item    *Item
	Failure *FetchFailure
}

// RunSummary is the per-run report emitted once at the end.
type RunSummary struct {
	RunID     string
	Processed int
	Succeeded int
	Failed    int
}
