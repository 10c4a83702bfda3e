package fetcher

import (
	"context"
	"errors"
)

// PageSize er maks antall noder GitHub tillater per side.
const PageSize = 100

var ErrMissingCursor = errors.New("hasNextPage uten endCursor")

// ErrNotFound betyr at GitHub svarte null for eieren eller repoet.
var ErrNotFound = errors.New("ikke funnet")

// Page er én side fra et GraphQL-connection-felt.
type Page[T any] struct {
	Items       []T
	EndCursor   *string
	HasNextPage bool
}

// PageFunc henter siden som starter etter cursor. nil betyr første side.
type PageFunc[T any] func(ctx context.Context, cursor *string) (Page[T], error)

// Paginate følger cursoren til siste side og returnerer alle elementene i
// rekkefølgen serveren ga dem. Feiler én side returneres ingenting.
func Paginate[T any](ctx context.Context, fetch PageFunc[T]) ([]T, error) {
	all := []T{}
	var cursor *string

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := fetch(ctx, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)

		if !page.HasNextPage {
			return all, nil
		}
		if page.EndCursor == nil {
			return nil, ErrMissingCursor
		}
		cursor = page.EndCursor
	}
}
