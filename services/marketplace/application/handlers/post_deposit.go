package handlers

import (
	"net/http"

	"github.com/ghuser/marketledger/pkg/auth"
	"github.com/ghuser/marketledger/pkg/errhttp"
	"github.com/ghuser/marketledger/pkg/httpx"
	"github.com/ghuser/marketledger/pkg/logger"
	pkgvalidator "github.com/ghuser/marketledger/pkg/validator"
	"github.com/ghuser/marketledger/services/marketplace/application/services"
)

// DepositRequest credits the caller's account with spendable funds.
type DepositRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// CreateDeposit handles POST /api/v1/accounts/me/deposits
//
//	@Summary	Deposit funds into the caller's account
//	@Description	Credits the caller's settled balance. Intended for development and test provisioning; production deployments fund accounts out of band.
//	@Tags		accounts
//	@Accept		json
//	@Produce	json
//	@Param		request	body		DepositRequest	true	"Amount to credit"
//	@Success	200		{object}	BalanceResponse
//	@Failure	401		{object}	map[string]string	"Not authenticated"
//	@Failure	422		{object}	map[string]any		"Validation failed"
//	@Router		/accounts/me/deposits [post]
func CreateDeposit(svc *services.Services, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, err := auth.AccountIDFromCtx(r.Context())
		if err != nil {
			httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		req, ok := pkgvalidator.ValidateRequest[DepositRequest](w, r)
		if !ok {
			return
		}

		if err := svc.Ledger.Deposit(r.Context(), accountID, req.Amount); err != nil {
			log.ErrorContext(r.Context(), "deposit failed", "account", accountID, "error", err)
			errhttp.WriteError(w, err)
			return
		}

		balance, err := svc.Ledger.Balance(r.Context(), accountID)
		if err != nil {
			errhttp.WriteError(w, err)
			return
		}

		log.InfoContext(r.Context(), "deposit credited", "account", accountID, "amount", req.Amount)
		httpx.JSON(w, http.StatusOK, BalanceResponse{
			Account: accountID.String(),
			Balance: balance,
		})
	}
}
