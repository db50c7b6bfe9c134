package compose

import (
	"context"

	"github.com/quantmind-br/composefetch-go/internal/domain"
)

// Fetch retrieves the file behind the locator through the given transport and
// decodes it. Transport failures and decode failures both surface as errors;
// the caller decides whether a failed source aborts the run or is skipped.
func Fetch(ctx context.Context, fetcher domain.FileFetcher, loc domain.FileLocator) (*File, error) {
	data, err := fetcher.Fetch(ctx, loc)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
