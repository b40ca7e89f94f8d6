package runner

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"ebay-sheets-sync/internal/models"
	"ebay-sheets-sync/internal/parser"
	"ebay-sheets-sync/internal/scraper"
)

// Runner drives one full pass over the sheet rows: fetch, parse,
// collect. Rows are processed strictly in input order and one at a
// time; a failed row is recorded and the run moves on.
type Runner struct {
	fetcher scraper.Fetcher
	parser  parser.Parser
	logger  *slog.Logger
}

func New(fetcher scraper.Fetcher, p parser.Parser) *Runner {
	return &Runner{
		fetcher: fetcher,
		parser:  p,
		logger:  slog.Default().With("component", "runner"),
	}
}

// Run processes every row with a non-empty link. The result order
// matches the input row order; write-back depends on that. Rows with an
// empty link are skipped and never counted as processed. Context
// cancellation stops the loop between rows.
func (r *Runner) Run(ctx context.Context, rows []models.Row) ([]models.RowResult, models.RunSummary) {
	summary := models.RunSummary{RunID: uuid.NewString()}
	results := make([]models.RowResult, 0, len(rows))

	r.logger.Info("starting run", "run_id", summary.RunID, "rows", len(rows))

	for i, row := range rows {
		if ctx.Err() != nil {
			r.logger.Warn("run cancelled", "run_id", summary.RunID, "at_row", row.Index)
			break
		}

		if row.Link == "" {
			r.logger.Debug("skipping row without link", "row", row.Index)
			continue
		}

		r.logger.Info("processing row",
			"row", row.Index,
			"progress", i+1,
			"total", len(rows),
			"link", truncateLink(row.Link))

		summary.Processed++

		item, err := r.processRow(ctx, row)
		if err != nil {
			summary.Failed++
			results = append(results, models.RowResult{
				Row:     row,
				Failure: &models.FetchFailure{Link: row.Link, Reason: err.Error()},
			})
			r.logger.Warn("row failed", "row", row.Index, "error", err)
			continue
		}

		summary.Succeeded++
		results = append(results, models.RowResult{Row: row, Item: item})
		r.logger.Info("row parsed", "row", row.Index, "title", item.Title.Value)
	}

	r.logger.Info("run finished",
		"run_id", summary.RunID,
		"processed", summary.Processed,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed)

	return results, summary
}

// processRow fetches and parses one link. Fetch and parse failures are
// reported identically; the caller only needs the reason.
func (r *Runner) processRow(ctx context.Context, row models.Row) (*models.Item, error) {
	markup, err := r.fetcher.FetchRenderedPage(ctx, row.Link)
	if err != nil {
		return nil, err
	}

	return r.parser.ParseItemPage(markup, row.Link)
}

// truncateLink keeps log lines readable; eBay item URLs carry long
// tracking tails.
func truncateLink(link string) string {
	const max = 60
	if len(link) <= max {
		return link
	}
	return link[:max] + "..."
}
