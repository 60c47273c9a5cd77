package errhttp

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	marketdomain "github.com/ghuser/marketledger/services/marketplace/domain"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", marketdomain.ErrProductNotFound, http.StatusNotFound},
		{"already purchased", marketdomain.ErrAlreadyPurchased, http.StatusConflict},
		{"invalid product", marketdomain.ErrInvalidProduct, http.StatusUnprocessableEntity},
		{"payment mismatch", marketdomain.ErrPaymentMismatch, http.StatusPaymentRequired},
		{"insufficient funds", marketdomain.ErrInsufficientFunds, http.StatusPaymentRequired},
		{"self purchase", marketdomain.ErrSelfPurchase, http.StatusForbidden},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
		{
			"wrapped sentinel",
			fmt.Errorf("purchase: %w", marketdomain.ErrAlreadyPurchased),
			http.StatusConflict,
		},
		{
			"doubly wrapped sentinel",
			fmt.Errorf("outer: %w", fmt.Errorf("%w: attached 1, price 2", marketdomain.ErrPaymentMismatch)),
			http.StatusPaymentRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
				t.Errorf("content type = %q", ct)
			}
		})
	}
}
