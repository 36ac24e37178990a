package freshservice

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	errs "github.com/matzehuels/swcatalog/pkg/errors"
	"github.com/matzehuels/swcatalog/pkg/integrations"
)

// DefaultPageSize is the largest per_page value Freshservice accepts.
const DefaultPageSize = 100

// progressEvery controls how often the progress callback fires, in pages.
const progressEvery = 5

// PageGetter fetches one page envelope and decodes the named field into v.
// [integrations.Client] implements it.
type PageGetter interface {
	GetField(ctx context.Context, path, field string, v any) error
}

// ProgressFunc is called periodically while a collection is being walked.
type ProgressFunc func(collection string, records int)

// FetchAll walks a paginated collection endpoint from page 1 and returns
// every record in server order.
//
// A page holding exactly pageSize records means more may follow; a short
// page ends the walk. A 404 ends the walk without error (the collection
// is empty or exhausted). Any other failure, after the retry policy has
// given up, also ends the walk: the records accumulated so far are returned
// together with a TRUNCATED error so callers can log it and carry on with
// the partial collection.
func FetchAll[T any](ctx context.Context, g PageGetter, path, field string, pageSize int, progress ProgressFunc) ([]T, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var out []T
	for page := 1; ; page++ {
		var items []T
		err := g.GetField(ctx, pagePath(path, pageSize, page), field, &items)
		if errors.Is(err, integrations.ErrNotFound) {
			return out, nil
		}
		if err != nil {
			return out, errs.Wrap(errs.ErrCodeTruncated, err, "%s: page %d", field, page)
		}

		out = append(out, items...)
		if progress != nil && page%progressEvery == 0 {
			progress(field, len(out))
		}
		if len(items) != pageSize {
			return out, nil
		}
	}
}

func pagePath(path string, pageSize, page int) string {
	return integrations.WithQuery(path, url.Values{
		"per_page": {strconv.Itoa(pageSize)},
		"page":     {strconv.Itoa(page)},
	})
}
