package store

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/geocoder89/billed/internal/domain/bill"
	"github.com/stretchr/testify/require"
)

func TestErrorMessageIsLiteral(t *testing.T) {
	require.Equal(t, "Erreur 404", NewError(http.StatusNotFound, nil).Error())
	require.Equal(t, "Erreur 500", NewError(http.StatusInternalServerError, errors.New("boom")).Error())
}

func TestAsError(t *testing.T) {
	require.NoError(t, AsError(nil))

	notFound := AsError(fmt.Errorf("update: %w", bill.ErrNotFound))
	require.EqualError(t, notFound, "Erreur 404")
	require.ErrorIs(t, notFound, bill.ErrNotFound)

	unknown := AsError(errors.New("connection reset"))
	require.EqualError(t, unknown, "Erreur 500")

	existing := NewError(http.StatusBadGateway, nil)
	require.Same(t, existing, AsError(fmt.Errorf("wrapped: %w", existing)))
}

func TestStatusOf(t *testing.T) {
	require.Equal(t, http.StatusNotFound, StatusOf(NewError(http.StatusNotFound, nil)))
	require.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("plain")))
}
