package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/geocoder89/billed/internal/db"
	"github.com/geocoder89/billed/internal/domain/bill"
	"github.com/geocoder89/billed/internal/domain/user"
	"github.com/geocoder89/billed/internal/store"
	"github.com/geocoder89/billed/internal/store/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

type stubReceipts struct{}

func (stubReceipts) Save(ctx context.Context, key, fileName string, data []byte) (string, error) {
	return "/receipts/" + key + ".png", nil
}

func setupStore(t *testing.T) (*postgres.Store, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	pool, err := db.NewPool(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(context.Background(), `TRUNCATE bills, users`)
	require.NoError(t, err)

	return postgres.New(pool, stubReceipts{}, nil), pool
}

func TestCreateUpdateList(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	res, err := s.Create(ctx, store.CreateRequest{Email: "e@e", FileName: "t.png", Data: []byte("x")})
	require.NoError(t, err)
	require.Equal(t, "/receipts/"+res.Key+".png", res.FileURL)

	updated, err := s.Update(ctx, res.Key, bill.Bill{
		Email: "e@e", Type: "Transports", Name: "Taxi", Amount: 30, Date: "2022-06-02",
		VAT: "6", Pct: 20, FileURL: res.FileURL, FileName: "t.png", Status: bill.StatusPending,
	})
	require.NoError(t, err)
	require.Equal(t, "Taxi", updated.Name)

	list, err := s.List(ctx, bill.ListFilter{Email: "e@e"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, res.Key, list[0].ID)

	others, err := s.List(ctx, bill.ListFilter{Email: "nobody@e"})
	require.NoError(t, err)
	require.Empty(t, others)
}

func TestUpdateMissingIs404(t *testing.T) {
	s, _ := setupStore(t)

	_, err := s.Update(context.Background(), uuid.NewString(), bill.Bill{Status: bill.StatusPending})
	require.EqualError(t, err, "Erreur 404")

	_, err = s.Update(context.Background(), "not-a-uuid", bill.Bill{})
	require.EqualError(t, err, "Erreur 404")
}

func TestUsers(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	_, err := s.GetUserByEmail(ctx, "u@u")
	require.ErrorIs(t, err, user.ErrNotFound)

	_, err = s.CreateUser(ctx, user.User{Email: "U@u", Type: user.TypeEmployee, PasswordHash: "h"})
	require.NoError(t, err)

	got, err := s.GetUserByEmail(ctx, "u@u")
	require.NoError(t, err)
	require.Equal(t, user.TypeEmployee, got.Type)

	_, err = s.CreateUser(ctx, user.User{Email: "u@u", Type: user.TypeEmployee, PasswordHash: "h"})
	require.ErrorIs(t, err, user.ErrEmailAlreadyUsed)
}
