package coupon

import (
	"context"
	"fmt"
	"sync"

	"pawcart/internal/model"

	"github.com/rs/zerolog"
)

// Importer loads coupon seed files and writes them to a Store.
type Importer struct {
	loader Loader
	store  Store
	logger zerolog.Logger
}

// NewImporter creates a new coupon seed importer.
func NewImporter(loader Loader, store Store, logger zerolog.Logger) *Importer {
	return &Importer{
		loader: loader,
		store:  store,
		logger: logger.With().Str("component", "coupon-importer").Logger(),
	}
}

// Import loads all files concurrently and upserts the merged result.
// When the same code appears in several files, the later file wins.
func (i *Importer) Import(ctx context.Context, filePaths []string) (int, error) {
	if len(filePaths) == 0 {
		return 0, nil
	}

	i.logger.Info().
		Int("file_count", len(filePaths)).
		Msg("importing coupon seed files")

	type loadResult struct {
		index   int
		coupons []model.Coupon
		err     error
	}

	resultChan := make(chan loadResult, len(filePaths))
	var wg sync.WaitGroup

	for idx, filePath := range filePaths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			coupons, err := i.loader.Load(ctx, path)
			resultChan <- loadResult{
				index:   index,
				coupons: coupons,
				err:     err,
			}
		}(idx, filePath)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(filePaths))
	for result := range resultChan {
		results[result.index] = result
	}

	merged := make(map[string]int)
	var coupons []model.Coupon
	for idx, result := range results {
		if result.err != nil {
			i.logger.Error().
				Err(result.err).
				Str("file", filePaths[idx]).
				Msg("failed to load coupon file")
			return 0, fmt.Errorf("failed to load coupon file %s: %w", filePaths[idx], result.err)
		}
		for _, c := range result.coupons {
			if pos, ok := merged[c.Code]; ok {
				coupons[pos] = c
				continue
			}
			merged[c.Code] = len(coupons)
			coupons = append(coupons, c)
		}
	}

	written, err := i.store.UpsertMany(ctx, coupons)
	if err != nil {
		return 0, fmt.Errorf("failed to store imported coupons: %w", err)
	}

	i.logger.Info().
		Int("coupons_imported", written).
		Msg("coupon seed import complete")

	return written, nil
}
