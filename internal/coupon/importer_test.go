package coupon

import (
	"context"
	"errors"
	"testing"

	"pawcart/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) UpsertMany(ctx context.Context, coupons []model.Coupon) (int, error) {
	args := m.Called(ctx, coupons)
	return args.Int(0), args.Error(1)
}

func TestImporter_Import_MergesLaterFileWins(t *testing.T) {
	loader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) ([]model.Coupon, error) {
			switch filePath {
			case "a.gz":
				return []model.Coupon{
					{Code: "SHARED", Percent: 5, Status: true},
					{Code: "ONLYA", Percent: 7, Status: true},
				}, nil
			case "b.gz":
				return []model.Coupon{
					{Code: "SHARED", Percent: 20, Status: true},
				}, nil
			}
			return nil, errors.New("unexpected file")
		},
	}

	store := new(mockStore)
	store.On("UpsertMany", mock.Anything, mock.MatchedBy(func(coupons []model.Coupon) bool {
		if len(coupons) != 2 {
			return false
		}
		return coupons[0].Code == "SHARED" && coupons[0].Percent == 20 && coupons[1].Code == "ONLYA"
	})).Return(2, nil)

	importer := NewImporter(loader, store, zerolog.Nop())
	written, err := importer.Import(context.Background(), []string{"a.gz", "b.gz"})

	require.NoError(t, err)
	assert.Equal(t, 2, written)
	store.AssertExpectations(t)
}

func TestImporter_Import_LoadError(t *testing.T) {
	loader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) ([]model.Coupon, error) {
			if filePath == "bad.gz" {
				return nil, errors.New("corrupt")
			}
			return []model.Coupon{{Code: "OK", Percent: 5, Status: true}}, nil
		},
	}
	store := new(mockStore)

	importer := NewImporter(loader, store, zerolog.Nop())
	written, err := importer.Import(context.Background(), []string{"good.gz", "bad.gz"})

	require.Error(t, err)
	assert.Zero(t, written)
	assert.Contains(t, err.Error(), "bad.gz")
	store.AssertNotCalled(t, "UpsertMany", mock.Anything, mock.Anything)
}

func TestImporter_Import_StoreError(t *testing.T) {
	loader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) ([]model.Coupon, error) {
			return []model.Coupon{{Code: "OK", Percent: 5, Status: true}}, nil
		},
	}
	store := new(mockStore)
	store.On("UpsertMany", mock.Anything, mock.Anything).Return(0, errors.New("db down"))

	importer := NewImporter(loader, store, zerolog.Nop())
	_, err := importer.Import(context.Background(), []string{"a.gz"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store imported coupons")
}

func TestImporter_Import_NoFiles(t *testing.T) {
	store := new(mockStore)
	importer := NewImporter(&mockLoader{}, store, zerolog.Nop())

	written, err := importer.Import(context.Background(), nil)

	require.NoError(t, err)
	assert.Zero(t, written)
	store.AssertNotCalled(t, "UpsertMany", mock.Anything, mock.Anything)
}
