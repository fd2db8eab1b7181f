// Package cached wraps a store so the bill list is fetched once per filter
// until a create or update invalidates it.
package cached

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/geocoder89/billed/internal/domain/bill"
	"github.com/geocoder89/billed/internal/observability"
	"github.com/geocoder89/billed/internal/store"
	"golang.org/x/sync/singleflight"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	next  store.Store
	cache ListCache
	log   *slog.Logger
	prom  *observability.Prom
	group singleflight.Group
}

func New(next store.Store, cache ListCache, log *slog.Logger, prom *observability.Prom) *Store {
	if log == nil {
		log = slog.Default()
	}

	return &Store{next: next, cache: cache, log: log, prom: prom}
}

func (s *Store) count(result string) {
	if s.prom != nil {
		s.prom.CacheResults.WithLabelValues(result).Inc()
	}
}

func (s *Store) List(ctx context.Context, filter bill.ListFilter) ([]bill.Bill, error) {
	bills, ok, err := s.cache.Get(ctx, filter)
	if err != nil {
		// a broken cache degrades to a direct read
		s.count("error")
		s.log.WarnContext(ctx, "bill list cache read failed", "err", err)
	}
	if ok {
		s.count("hit")
		return bills, nil
	}
	s.count("miss")

	// read before fetching: a write landing during the fetch bumps it
	gen, genErr := s.cache.Generation(ctx)
	if genErr != nil {
		s.log.WarnContext(ctx, "bill list cache generation read failed", "err", genErr)
	}

	key := "list:" + strconv.FormatInt(gen, 10) + ":" + filter.Email
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		// shared by every caller collapsed on key, so no single caller may cancel it
		fetchCtx := context.WithoutCancel(ctx)

		fresh, err := s.next.List(fetchCtx, filter)
		if err != nil {
			return nil, err
		}

		if genErr == nil {
			if err := s.cache.Set(fetchCtx, gen, filter, fresh); err != nil {
				s.log.WarnContext(ctx, "bill list cache write failed", "err", err)
			}
		}

		return fresh, nil
	})
	if err != nil {
		return nil, err
	}

	out := v.([]bill.Bill)
	return cloneBills(out), nil
}

func (s *Store) Create(ctx context.Context, req store.CreateRequest) (store.CreateResult, error) {
	res, err := s.next.Create(ctx, req)
	if err != nil {
		return store.CreateResult{}, err
	}

	s.invalidate(ctx)
	return res, nil
}

func (s *Store) Update(ctx context.Context, key string, b bill.Bill) (bill.Bill, error) {
	out, err := s.next.Update(ctx, key, b)
	if err != nil {
		return bill.Bill{}, err
	}

	s.invalidate(ctx)
	return out, nil
}

func (s *Store) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.WarnContext(ctx, "bill list cache invalidation failed", "err", err)
	}
}
