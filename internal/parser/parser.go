package parser

import (
	"errors"
	"fmt"

	"ebay-sheets-sync/internal/models"
)

var errEmptyDocument = errors.New("empty document")

type Parser interface {
	ParseItemPage(html string, link string) (*models.Item, error)
}

// MarkupError means the fetched content could not be handled as an HTML
// document at all. Individual missing elements are never a MarkupError;
// they surface as absent fields.
type MarkupError struct {
	Err error
}

func (e *MarkupError) Error() string {
	return fmt.Sprintf("unparseable markup: %v", e.Err)
}

func (e *MarkupError) Unwrap() error {
	return e.Err
}
