package memory

import (
	"context"
	"sync"

	"github.com/geocoder89/billed/internal/domain/bill"
	"github.com/geocoder89/billed/internal/domain/user"
	"github.com/geocoder89/billed/internal/store"
	"github.com/google/uuid"
)

var (
	_ store.Store     = (*Store)(nil)
	_ store.UserStore = (*Store)(nil)
)

type Store struct {
	mu       sync.RWMutex
	bills    map[string]bill.Bill // {"key": bill}
	order    []string
	users    map[string]user.User // by email
	receipts store.ReceiptSaver
}

func New(receipts store.ReceiptSaver) *Store {
	return &Store{
		bills:    make(map[string]bill.Bill),
		users:    make(map[string]user.User),
		receipts: receipts,
	}
}

// Seed inserts bills as they are, keeping their IDs.
func (s *Store) Seed(bills ...bill.Bill) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range bills {
		if _, ok := s.bills[b.ID]; !ok {
			s.order = append(s.order, b.ID)
		}
		s.bills[b.ID] = b
	}
}

func (s *Store) List(ctx context.Context, filter bill.ListFilter) ([]bill.Bill, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.AsError(err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]bill.Bill, 0, len(s.order))
	for _, id := range s.order {
		b := s.bills[id]
		if filter.Email != "" && b.Email != filter.Email {
			continue
		}
		out = append(out, b)
	}

	return out, nil
}

func (s *Store) Create(ctx context.Context, req store.CreateRequest) (store.CreateResult, error) {
	key := uuid.NewString()

	var fileURL string
	if s.receipts != nil {
		url, err := s.receipts.Save(ctx, key, req.FileName, req.Data)
		if err != nil {
			return store.CreateResult{}, store.AsError(err)
		}
		fileURL = url
	}

	b := bill.Bill{
		ID:       key,
		Email:    req.Email,
		FileURL:  fileURL,
		FileName: req.FileName,
		Status:   bill.StatusPending,
	}

	s.mu.Lock()
	s.bills[key] = b
	s.order = append(s.order, key)
	s.mu.Unlock()

	return store.CreateResult{FileURL: fileURL, Key: key, FileName: req.FileName}, nil
}

func (s *Store) Update(ctx context.Context, key string, b bill.Bill) (bill.Bill, error) {
	if err := ctx.Err(); err != nil {
		return bill.Bill{}, store.AsError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bills[key]; !ok {
		return bill.Bill{}, store.AsError(bill.ErrNotFound)
	}

	b.ID = key
	s.bills[key] = b

	return b, nil
}
