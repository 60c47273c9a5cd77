package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/marketledger/pkg/auth"
	"github.com/ghuser/marketledger/pkg/httpx"
	"github.com/ghuser/marketledger/pkg/logger"
	pkgvalidator "github.com/ghuser/marketledger/pkg/validator"
)

// CreateSessionRequest opens a session for an account. When account_id is
// omitted a fresh account identity is minted.
type CreateSessionRequest struct {
	AccountID string `json:"account_id" validate:"omitempty,uuid4"`
}

// SessionResponse reports the account the session is bound to.
type SessionResponse struct {
	AccountID string `json:"account_id"`
}

// CreateSession handles POST /api/v1/sessions
//
//	@Summary	Open a session
//	@Description	Binds the session cookie to an account identity. Subsequent mutating calls act as this account. There is no credential check; identity provisioning is out of scope and deployments front this with their own identity provider.
//	@Tags		sessions
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateSessionRequest	true	"Account to act as (optional)"
//	@Success	201		{object}	SessionResponse
//	@Failure	400		{object}	map[string]string	"Invalid JSON"
//	@Router		/sessions [post]
func CreateSession(store sessions.Store, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := pkgvalidator.ValidateRequest[CreateSessionRequest](w, r)
		if !ok {
			return
		}

		accountID := uuid.New()
		if req.AccountID != "" {
			parsed, err := uuid.Parse(req.AccountID)
			if err != nil {
				httpx.JSONError(w, http.StatusBadRequest, "account_id must be a UUID")
				return
			}
			accountID = parsed
		}

		session, err := store.Get(r, auth.SessionName)
		if err != nil {
			log.ErrorContext(r.Context(), "session load failed", "error", err)
			httpx.JSONError(w, http.StatusInternalServerError, "session error")
			return
		}

		session.Values[auth.SessionAccountIDKey] = accountID.String()
		if err := session.Save(r, w); err != nil {
			log.ErrorContext(r.Context(), "session save failed", "error", err)
			httpx.JSONError(w, http.StatusInternalServerError, "session error")
			return
		}

		log.InfoContext(r.Context(), "session opened", "account", accountID)
		httpx.JSON(w, http.StatusCreated, SessionResponse{AccountID: accountID.String()})
	}
}

// DeleteSession handles DELETE /api/v1/sessions
//
//	@Summary	Close the current session
//	@Tags		sessions
//	@Success	204
//	@Router		/sessions [delete]
func DeleteSession(store sessions.Store, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := store.Get(r, auth.SessionName)
		if err == nil {
			session.Options.MaxAge = -1
			_ = session.Save(r, w)
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
