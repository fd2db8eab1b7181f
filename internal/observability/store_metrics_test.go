package observability

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestClassifyStoreErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unique", &pgconn.PgError{Code: "23505"}, "unique_violation"},
		{"other pg", &pgconn.PgError{Code: "42P01"}, "pg_42P01"},
		{"deadline", fmt.Errorf("list: %w", context.DeadlineExceeded), "timeout"},
		{"not found", errors.New("Erreur 404"), "not_found"},
		{"server", errors.New("Erreur 500"), "status_500"},
		{"conn", errors.New("connection refused"), "connection"},
		{"other", errors.New("boom"), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyStoreErr(tt.err); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestObserveStoreCountsErrors(t *testing.T) {
	p := NewProm(prometheus.NewRegistry())

	_ = p.ObserveStore("memory", "list", func() error { return nil })
	err := p.ObserveStore("memory", "update", func() error { return errors.New("Erreur 404") })
	if err == nil {
		t.Fatalf("expected the wrapped error to be returned")
	}

	if got := testutil.ToFloat64(p.StoreErrorsTotal.WithLabelValues("memory", "update", "not_found")); got != 1 {
		t.Fatalf("expected one not_found error, got %v", got)
	}
	if got := testutil.ToFloat64(p.StoreErrorsTotal.WithLabelValues("memory", "list", "unknown")); got != 0 {
		t.Fatalf("list should not have errors, got %v", got)
	}
}
