package containers

import (
	"context"

	"github.com/geocoder89/billed/internal/domain/bill"
	"github.com/geocoder89/billed/internal/store"
)

type fakeStore struct {
	listFn   func(ctx context.Context, filter bill.ListFilter) ([]bill.Bill, error)
	createFn func(ctx context.Context, req store.CreateRequest) (store.CreateResult, error)
	updateFn func(ctx context.Context, key string, b bill.Bill) (bill.Bill, error)

	listCalls   int
	createCalls int
	updateCalls int
}

func (f *fakeStore) List(ctx context.Context, filter bill.ListFilter) ([]bill.Bill, error) {
	f.listCalls++
	if f.listFn == nil {
		return []bill.Bill{}, nil
	}
	return f.listFn(ctx, filter)
}

func (f *fakeStore) Create(ctx context.Context, req store.CreateRequest) (store.CreateResult, error) {
	f.createCalls++
	if f.createFn == nil {
		return store.CreateResult{FileURL: "https://localhost:3456/images/test.jpg", Key: "1234"}, nil
	}
	return f.createFn(ctx, req)
}

func (f *fakeStore) Update(ctx context.Context, key string, b bill.Bill) (bill.Bill, error) {
	f.updateCalls++
	if f.updateFn == nil {
		return b, nil
	}
	return f.updateFn(ctx, key, b)
}
