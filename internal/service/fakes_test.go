package service

import (
	"context"
	"sync"

	"pawcart/internal/model"
	"pawcart/internal/repository"

	"github.com/jackc/pgx/v5"
)

// memCartRepo is an in-memory CartRepository with the same optimistic
// version semantics as the PostgreSQL one.
type memCartRepo struct {
	mu        sync.Mutex
	carts     map[string]*model.Cart
	saves     int
	conflicts int
	// beforeSave, when set, runs once before the next Save takes the lock.
	beforeSave func()
	saveErr    error
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{carts: make(map[string]*model.Cart)}
}

func (r *memCartRepo) GetByOwner(ctx context.Context, owner string) (*model.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[owner]
	if !ok {
		return nil, nil
	}
	return cart.Clone(), nil
}

func (r *memCartRepo) Save(ctx context.Context, cart *model.Cart) error {
	r.mu.Lock()
	hook := r.beforeSave
	r.beforeSave = nil
	r.mu.Unlock()
	if hook != nil {
		hook()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.saveErr != nil {
		return r.saveErr
	}

	cart.Recalculate()

	stored, exists := r.carts[cart.Owner]
	switch {
	case cart.Version == 0 && exists:
		r.conflicts++
		return repository.ErrVersionConflict
	case cart.Version != 0 && (!exists || stored.Version != cart.Version):
		r.conflicts++
		return repository.ErrVersionConflict
	}

	cart.Version++
	r.carts[cart.Owner] = cart.Clone()
	r.saves++
	return nil
}

func (r *memCartRepo) SaveTx(ctx context.Context, tx pgx.Tx, cart *model.Cart) error {
	return r.Save(ctx, cart)
}

// put stores cart as the current row, bypassing the version check.
func (r *memCartRepo) put(cart *model.Cart) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart.Recalculate()
	if cart.Version == 0 {
		cart.Version = 1
	}
	r.carts[cart.Owner] = cart.Clone()
}

func (r *memCartRepo) get(owner string) *model.Cart {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cart, ok := r.carts[owner]; ok {
		return cart.Clone()
	}
	return nil
}

// fixedShipping is a ShippingService returning constant settings.
type fixedShipping struct {
	setting model.ShippingSetting
	err     error
}

func (f *fixedShipping) Load(ctx context.Context) (model.ShippingSetting, error) {
	return f.setting, f.err
}

func (f *fixedShipping) Update(ctx context.Context, req *model.ShippingSettingRequest) (*model.ShippingSetting, error) {
	f.setting = model.ShippingSetting{Fee: req.Fee, FreeOver: req.FreeOver}
	return &f.setting, nil
}

// mapFinder is a coupon.Finder over a fixed set of coupons.
type mapFinder map[string]model.Coupon

func (m mapFinder) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	c, ok := m[code]
	if !ok {
		return nil, nil
	}
	return &c, nil
}
