// Package store defines the contract the front end uses to reach bill storage,
// whichever backend sits behind it.
package store

import (
	"context"

	"github.com/geocoder89/billed/internal/domain/bill"
	"github.com/geocoder89/billed/internal/domain/user"
)

// CreateRequest uploads a receipt and opens a bill record for it.
type CreateRequest struct {
	Email       string
	FileName    string
	ContentType string
	Data        []byte
}

type CreateResult struct {
	FileURL  string `json:"fileUrl"`
	Key      string `json:"key"`
	FileName string `json:"fileName"`
}

type Store interface {
	List(ctx context.Context, filter bill.ListFilter) ([]bill.Bill, error)
	Create(ctx context.Context, req CreateRequest) (CreateResult, error)
	Update(ctx context.Context, key string, b bill.Bill) (bill.Bill, error)
}

type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	CreateUser(ctx context.Context, u user.User) (user.User, error)
}

// ReceiptSaver persists the uploaded receipt and returns its public URL.
type ReceiptSaver interface {
	Save(ctx context.Context, key, fileName string, data []byte) (string, error)
}
