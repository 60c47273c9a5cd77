package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestAccountIDRoundTrip(t *testing.T) {
	want := uuid.New()
	ctx := WithAccountID(context.Background(), want)

	got, err := AccountIDFromCtx(ctx)
	if err != nil {
		t.Fatalf("AccountIDFromCtx: %v", err)
	}
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestAccountIDMissing(t *testing.T) {
	_, err := AccountIDFromCtx(context.Background())
	if !errors.Is(err, ErrAccountIDNotFound) {
		t.Errorf("error = %v, want ErrAccountIDNotFound", err)
	}
}

func TestAccountIDNilRejected(t *testing.T) {
	ctx := WithAccountID(context.Background(), uuid.Nil)
	_, err := AccountIDFromCtx(ctx)
	if !errors.Is(err, ErrAccountIDNotFound) {
		t.Errorf("error = %v, want ErrAccountIDNotFound", err)
	}
}
