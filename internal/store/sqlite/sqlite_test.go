package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/geocoder89/billed/internal/domain/bill"
	"github.com/geocoder89/billed/internal/domain/user"
	"github.com/geocoder89/billed/internal/store"
	"github.com/stretchr/testify/require"
)

type stubReceipts struct{ calls int }

func (s *stubReceipts) Save(ctx context.Context, key, fileName string, data []byte) (string, error) {
	s.calls++
	return "/receipts/" + key + filepath.Ext(fileName), nil
}

func newTestStore(t *testing.T) (*Store, *stubReceipts) {
	t.Helper()

	receipts := &stubReceipts{}
	s, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"), receipts, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s, receipts
}

func TestSQLiteStore(t *testing.T) {
	s, receipts := newTestStore(t)
	ctx := context.Background()

	t.Run("create opens a pending bill", func(t *testing.T) {
		res, err := s.Create(ctx, store.CreateRequest{Email: "a@a", FileName: "ticket.jpg", Data: []byte("x")})
		require.NoError(t, err)
		require.Equal(t, "/receipts/"+res.Key+".jpg", res.FileURL)
		require.Equal(t, 1, receipts.calls)

		list, err := s.List(ctx, bill.ListFilter{Email: "a@a"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, bill.StatusPending, list[0].Status)
		require.Equal(t, "ticket.jpg", list[0].FileName)
	})

	t.Run("update fills the bill", func(t *testing.T) {
		list, err := s.List(ctx, bill.ListFilter{Email: "a@a"})
		require.NoError(t, err)
		key := list[0].ID

		b := list[0]
		b.Type = "Hôtel et logement"
		b.Name = "Hotel"
		b.Amount = 120.5
		b.Date = "2022-01-15"
		b.Pct = 10

		got, err := s.Update(ctx, key, b)
		require.NoError(t, err)
		require.Equal(t, "Hotel", got.Name)
		require.Equal(t, 120.5, got.Amount)
		require.Equal(t, key, got.ID)
	})

	t.Run("update of unknown key is 404", func(t *testing.T) {
		_, err := s.Update(ctx, "missing", bill.Bill{})
		require.EqualError(t, err, "Erreur 404")
	})

	t.Run("list keeps insertion order and filters", func(t *testing.T) {
		_, err := s.Create(ctx, store.CreateRequest{Email: "b@b", FileName: "b.png", Data: []byte("x")})
		require.NoError(t, err)
		_, err = s.Create(ctx, store.CreateRequest{Email: "a@a", FileName: "second.png", Data: []byte("x")})
		require.NoError(t, err)

		mine, err := s.List(ctx, bill.ListFilter{Email: "a@a"})
		require.NoError(t, err)
		require.Len(t, mine, 2)
		require.Equal(t, "second.png", mine[1].FileName)

		all, err := s.List(ctx, bill.ListFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
	})
}

func TestSQLiteUsers(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetUserByEmail(ctx, "x@x")
	require.ErrorIs(t, err, user.ErrNotFound)

	created, err := s.CreateUser(ctx, user.User{Email: "X@x", Type: user.TypeAdmin, PasswordHash: "h", Name: "X"})
	require.NoError(t, err)

	got, err := s.GetUserByEmail(ctx, "x@x")
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
	require.Equal(t, user.TypeAdmin, got.Type)

	_, err = s.CreateUser(ctx, user.User{Email: "x@x", Type: user.TypeAdmin, PasswordHash: "h"})
	require.ErrorIs(t, err, user.ErrEmailAlreadyUsed)
}
