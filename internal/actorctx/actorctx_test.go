package actorctx

import (
	"context"
	"testing"

	"github.com/geocoder89/billed/internal/domain/user"
)

func TestSessionRoundTrip(t *testing.T) {
	if _, ok := SessionFrom(context.Background()); ok {
		t.Fatalf("empty context must not carry a session")
	}

	ctx := WithSession(context.Background(), user.Session{Type: user.TypeEmployee, Email: "a@a"})

	s, ok := SessionFrom(ctx)
	if !ok || s.Email != "a@a" || s.Type != user.TypeEmployee {
		t.Fatalf("unexpected session %+v ok=%v", s, ok)
	}

	if _, ok := SessionFrom(WithSession(context.Background(), user.Session{Type: user.TypeAdmin})); ok {
		t.Fatalf("session without email must be rejected")
	}
}
