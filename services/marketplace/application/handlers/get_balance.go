package handlers

import (
	"net/http"

	"github.com/ghuser/marketledger/pkg/auth"
	"github.com/ghuser/marketledger/pkg/errhttp"
	"github.com/ghuser/marketledger/pkg/httpx"
	"github.com/ghuser/marketledger/pkg/logger"
	"github.com/ghuser/marketledger/services/marketplace/application/services"
)

// BalanceResponse is the caller's settled account balance.
type BalanceResponse struct {
	Account string `json:"account"`
	Balance int64  `json:"balance"`
}

// GetBalance handles GET /api/v1/accounts/me/balance
//
//	@Summary	Get the caller's balance
//	@Tags		accounts
//	@Produce	json
//	@Success	200	{object}	BalanceResponse
//	@Failure	401	{object}	map[string]string	"Not authenticated"
//	@Router		/accounts/me/balance [get]
func GetBalance(svc *services.Services, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, err := auth.AccountIDFromCtx(r.Context())
		if err != nil {
			httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		balance, err := svc.Ledger.Balance(r.Context(), accountID)
		if err != nil {
			log.ErrorContext(r.Context(), "balance lookup failed", "account", accountID, "error", err)
			errhttp.WriteError(w, err)
			return
		}

		httpx.JSON(w, http.StatusOK, BalanceResponse{
			Account: accountID.String(),
			Balance: balance,
		})
	}
}
