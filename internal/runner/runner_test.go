package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ebay-sheets-sync/internal/models"
)

type fakeFetcher struct {
	pages map[string]string
	errs  map[string]error
	calls []string
}

func (f *fakeFetcher) FetchRenderedPage(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	if err, ok := f.errs[url]; ok {
		return "", err
	}
	return f.pages[url], nil
}

type fakeParser struct {
	failOn map[string]error
}

func (p *fakeParser) ParseItemPage(html string, link string) (*models.Item, error) {
	if err, ok := p.failOn[html]; ok {
		return nil, err
	}
	item := models.NewItem(link)
	item.Title = models.FieldOf("title for " + link)
	return item, nil
}

func TestRunPreservesRowOrder(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: map[string]string{
			"L1": "page one",
			"L3": "page three",
		},
		errs: map[string]error{
			"L2": errors.New("navigation failed"),
		},
	}

	r := New(fetcher, &fakeParser{})

	rows := []models.Row{
		{Index: 2, Link: "L1"},
		{Index: 3, Link: "L2"},
		{Index: 4, Link: "L3"},
	}

	results, summary := r.Run(context.Background(), rows)

	require.Len(t, results, 3)
	assert.Equal(t, []string{"L1", "L2", "L3"}, fetcher.calls)

	assert.Equal(t, 2, results[0].Row.Index)
	require.NotNil(t, results[0].Item)
	assert.Nil(t, results[0].Failure)

	assert.Equal(t, 3, results[1].Row.Index)
	assert.Nil(t, results[1].Item)
	require.NotNil(t, results[1].Failure)
	assert.Equal(t, "L2", results[1].Failure.Link)
	assert.Contains(t, results[1].Failure.Reason, "navigation failed")

	assert.Equal(t, 4, results[2].Row.Index)
	require.NotNil(t, results[2].Item)

	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.NotEmpty(t, summary.RunID)
}

func TestRunSkipsRowsWithoutLink(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{"L1": "page"}}
	r := New(fetcher, &fakeParser{})

	rows := []models.Row{
		{Index: 2, Link: ""},
		{Index: 3, Link: "L1"},
		{Index: 4, Link: ""},
	}

	results, summary := r.Run(context.Background(), rows)

	require.Len(t, results, 1)
	assert.Equal(t, 3, results[0].Row.Index)
	assert.Equal(t, []string{"L1"}, fetcher.calls)

	// Skipped rows never count as processed.
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)
}

func TestRunParseFailureIsRowFailure(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{"L1": "garbled"}}
	p := &fakeParser{failOn: map[string]error{"garbled": errors.New("unparseable markup")}}
	r := New(fetcher, p)

	results, summary := r.Run(context.Background(), []models.Row{{Index: 2, Link: "L1"}})

	require.Len(t, results, 1)
	assert.Nil(t, results[0].Item)
	require.NotNil(t, results[0].Failure)
	assert.Contains(t, results[0].Failure.Reason, "unparseable markup")

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 0, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{"L1": "page"}}
	r := New(fetcher, &fakeParser{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, summary := r.Run(ctx, []models.Row{{Index: 2, Link: "L1"}})

	assert.Empty(t, results)
	assert.Empty(t, fetcher.calls)
	assert.Equal(t, 0, summary.Processed)
}
