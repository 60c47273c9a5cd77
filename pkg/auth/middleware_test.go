package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/marketledger/pkg/config"
	"github.com/ghuser/marketledger/pkg/logger"
)

// stubStore returns a canned session without touching Redis.
type stubStore struct {
	values map[any]any
	err    error
}

func (s *stubStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return s.New(r, name)
}

func (s *stubStore) New(_ *http.Request, name string) (*sessions.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	sess := sessions.NewSession(s, name)
	sess.Values = s.values
	return sess, nil
}

func (s *stubStore) Save(*http.Request, http.ResponseWriter, *sessions.Session) error {
	return nil
}

func TestRequireAuth(t *testing.T) {
	log := logger.New(&config.Config{LogLevel: "error"})
	accountID := uuid.New()

	tests := []struct {
		name       string
		store      sessions.Store
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "valid session",
			store:      &stubStore{values: map[any]any{SessionAccountIDKey: accountID.String()}},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "store error",
			store:      &stubStore{err: errors.New("bad cookie")},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing account_id",
			store:      &stubStore{values: map[any]any{}},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed account_id",
			store:      &stubStore{values: map[any]any{SessionAccountIDKey: "not-a-uuid"}},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var nextCalled bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				got, err := AccountIDFromCtx(r.Context())
				if err != nil {
					t.Errorf("AccountIDFromCtx after auth: %v", err)
				}
				if got != accountID {
					t.Errorf("account = %v, want %v", got, accountID)
				}
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/products", nil)
			RequireAuth(tt.store, log)(next).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if nextCalled != tt.wantNext {
				t.Errorf("next called = %v, want %v", nextCalled, tt.wantNext)
			}
		})
	}
}
