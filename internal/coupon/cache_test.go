package coupon

import (
	"context"
	"errors"
	"testing"
	"time"

	"pawcart/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFinder struct {
	calls   int
	coupons map[string]model.Coupon
	err     error
}

func (f *countingFinder) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.coupons[code]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func TestCachedFinder_HitsCacheAfterFirstLookup(t *testing.T) {
	next := &countingFinder{coupons: map[string]model.Coupon{"SAVE10": {Code: "SAVE10", Percent: 10, Status: true}}}
	finder := NewCachedFinder(next, 16, time.Minute)
	ctx := context.Background()

	first, err := finder.FindByCode(ctx, "SAVE10")
	require.NoError(t, err)
	second, err := finder.FindByCode(ctx, "SAVE10")
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first.Code, second.Code)
}

func TestCachedFinder_DoesNotCacheMisses(t *testing.T) {
	next := &countingFinder{coupons: map[string]model.Coupon{}}
	finder := NewCachedFinder(next, 16, time.Minute)
	ctx := context.Background()

	c, err := finder.FindByCode(ctx, "NEW")
	require.NoError(t, err)
	assert.Nil(t, c)

	next.coupons["NEW"] = model.Coupon{Code: "NEW", Percent: 5, Status: true}

	c, err = finder.FindByCode(ctx, "NEW")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, 2, next.calls)
}

func TestCachedFinder_Invalidate(t *testing.T) {
	next := &countingFinder{coupons: map[string]model.Coupon{"SAVE10": {Code: "SAVE10", Percent: 10, Status: true}}}
	finder := NewCachedFinder(next, 16, time.Minute)
	ctx := context.Background()

	_, err := finder.FindByCode(ctx, "SAVE10")
	require.NoError(t, err)

	next.coupons["SAVE10"] = model.Coupon{Code: "SAVE10", Percent: 15, Status: true}
	finder.Invalidate("SAVE10")

	c, err := finder.FindByCode(ctx, "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, 15, c.Percent)
}

func TestCachedFinder_PropagatesErrors(t *testing.T) {
	next := &countingFinder{err: errors.New("db down")}
	finder := NewCachedFinder(next, 16, time.Minute)

	c, err := finder.FindByCode(context.Background(), "ANY")

	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestCachedFinder_NonPositiveTTLDisablesCaching(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
	}{
		{name: "zero ttl", ttl: 0},
		{name: "negative ttl", ttl: -time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &countingFinder{coupons: map[string]model.Coupon{"SAVE10": {Code: "SAVE10", Percent: 10, Status: true}}}
			finder := NewCachedFinder(next, 16, tt.ttl)
			ctx := context.Background()

			_, err := finder.FindByCode(ctx, "SAVE10")
			require.NoError(t, err)

			next.coupons["SAVE10"] = model.Coupon{Code: "SAVE10", Percent: 20, Status: true}
			finder.Invalidate("SAVE10")

			c, err := finder.FindByCode(ctx, "SAVE10")
			require.NoError(t, err)
			require.NotNil(t, c)
			assert.Equal(t, 20, c.Percent)
			assert.Equal(t, 2, next.calls)
		})
	}
}
