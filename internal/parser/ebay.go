package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ebay-sheets-sync/internal/models"
)

// Selectors for the eBay item page layout. The labels/values blocks are
// the "ux" component grid eBay renders item details into.
const (
	priceSelector     = "div.x-price-primary"
	shippingSelector  = "div.ux-labels-values--shipping"
	valuesSelector    = "div.ux-labels-values__values-content"
	specificsSelector = "dl.ux-labels-values--inline"
	boldSpanSelector  = "span.ux-textspans--BOLD"
)

// cannotDeliverMessage is written to the shipping column when the page
// says the item does not ship to the viewer's region.
const cannotDeliverMessage = "Cannot be delivered to your country"

var weekdayTokens = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// ItemPage is one parsed product page. The item-specifics section is
// indexed into a label/value map at construction so repeated Param
// lookups do not re-scan the document.
type ItemPage struct {
	doc       *goquery.Document
	specifics map[string]string
}

// NewItemPage parses rendered page markup. It fails only when the input
// cannot be handled as a document at all; missing elements are reported
// by the individual extractors as absent values.
func NewItemPage(html string) (*ItemPage, error) {
	if strings.TrimSpace(html) == "" {
		return nil, &MarkupError{Err: errEmptyDocument}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &MarkupError{Err: err}
	}

	page := &ItemPage{
		doc:       doc,
		specifics: make(map[string]string),
	}
	page.indexSpecifics()

	return page, nil
}

// indexSpecifics collects the labeled key/value pairs from the item
// specifics section. Labels are kept exactly as the page writes them.
func (p *ItemPage) indexSpecifics() {
	p.doc.Find(specificsSelector).Each(func(_ int, block *goquery.Selection) {
		spans := block.Find("span")
		if spans.Length() < 2 {
			return
		}

		label := strings.TrimSpace(spans.Eq(0).Text())
		label = strings.TrimSuffix(label, ":")
		value := strings.TrimSpace(spans.Eq(1).Text())

		if label == "" || value == "" {
			return
		}
		if _, seen := p.specifics[label]; !seen {
			p.specifics[label] = value
		}
	})
}

// Price returns the primary item price with currency symbols, thousands
// separators and the per-unit suffix stripped, e.g. "US $1,234.50/ea"
// comes back as "1234.50".
func (p *ItemPage) Price() (string, bool) {
	block := p.doc.Find(priceSelector).First()
	if block.Length() == 0 {
		return "", false
	}

	text := strings.TrimSpace(block.Text())
	text = strings.ReplaceAll(text, "US $", "")
	text = strings.ReplaceAll(text, "$", "")
	// Per-unit suffixes render as "/ea" or "/ ea" depending on layout.
	if idx := strings.Index(text, "/"); idx >= 0 {
		text = text[:idx]
	}
	text = strings.ReplaceAll(text, ",", "")
	text = strings.TrimSpace(text)

	if text == "" {
		return "", false
	}
	return text, true
}

// Shipping classifies the shipping cost into one of three shapes: "0"
// for free shipping, a bare numeric string for a shipping fee, or the
// page's own notice when the item cannot ship to the viewer's region.
func (p *ItemPage) Shipping() (string, bool) {
	block := p.doc.Find(shippingSelector).First()
	if block.Length() == 0 {
		return "", false
	}

	bold := block.Find(boldSpanSelector).First()
	if bold.Length() == 0 {
		return "", false
	}

	text := strings.TrimSpace(bold.Text())
	switch {
	case strings.Contains(text, "Free"):
		return "0", true
	case strings.Contains(text, "May not ship to"):
		return cannotDeliverMessage, true
	case strings.Contains(text, "US $"):
		return strings.TrimSpace(strings.ReplaceAll(text, "US $", "")), true
	default:
		return text, true
	}
}

// DeliveryWindow returns the earliest and latest estimated delivery
// dates. The pair is only reported when the values block holds exactly
// two emphasized date spans; anything else is absent.
func (p *ItemPage) DeliveryWindow() (string, string, bool) {
	var block *goquery.Selection

	p.doc.Find(valuesSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		for _, day := range weekdayTokens {
			if strings.Contains(text, day) {
				block = sel
				return false
			}
		}
		return true
	})
	if block == nil {
		return "", "", false
	}

	bold := block.Find(boldSpanSelector)
	if bold.Length() != 2 {
		return "", "", false
	}

	earliest := strings.TrimSpace(bold.Eq(0).Text())
	latest := strings.TrimSpace(bold.Eq(1).Text())
	if earliest == "" || latest == "" {
		return "", "", false
	}

	return earliest, latest, true
}

// Title returns the document title with the marketplace suffix removed.
func (p *ItemPage) Title() (string, bool) {
	title := p.doc.Find("title").First()
	if title.Length() == 0 {
		return "", false
	}

	text := strings.TrimSpace(title.Text())
	text = strings.TrimSpace(strings.TrimSuffix(text, "| eBay"))

	if text == "" {
		return "", false
	}
	return text, true
}

// Condition returns the item condition from the specifics section.
func (p *ItemPage) Condition() (string, bool) {
	return p.Param("Condition")
}

// Param looks up a labeled value from the item specifics section. The
// label must match the page's own label text exactly.
func (p *ItemPage) Param(name string) (string, bool) {
	value, ok := p.specifics[name]
	return value, ok
}

// EbayParser turns rendered eBay product pages into Items.
type EbayParser struct{}

func NewEbayParser() *EbayParser {
	return &EbayParser{}
}

// ParseItemPage composes all field extractors into one record. A
// malformed or partially rendered page yields an item with more absent
// fields; the only error is markup that cannot be parsed at all.
func (ep *EbayParser) ParseItemPage(html string, link string) (*models.Item, error) {
	page, err := NewItemPage(html)
	if err != nil {
		return nil, err
	}

	item := models.NewItem(link)

	if v, ok := page.Price(); ok {
		item.Price = models.FieldOf(v)
	}
	if v, ok := page.Shipping(); ok {
		item.Shipping = models.FieldOf(v)
	}
	if earliest, latest, ok := page.DeliveryWindow(); ok {
		item.Delivery = models.DeliveryField{Earliest: earliest, Latest: latest, Found: true}
	}
	if v, ok := page.Title(); ok {
		item.Title = models.FieldOf(v)
	}
	if v, ok := page.Condition(); ok {
		item.Condition = models.FieldOf(v)
	}
	if v, ok := page.Param("MPN"); ok {
		item.MPN = models.FieldOf(v)
	}
	if v, ok := page.Param("Brand"); ok {
		item.Brand = models.FieldOf(v)
	}
	if v, ok := page.Param("Model"); ok {
		item.Model = models.FieldOf(v)
	}

	return item, nil
}
