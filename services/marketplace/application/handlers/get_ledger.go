package handlers

import (
	"net/http"

	"github.com/ghuser/marketledger/pkg/errhttp"
	"github.com/ghuser/marketledger/pkg/httpx"
	"github.com/ghuser/marketledger/pkg/logger"
	"github.com/ghuser/marketledger/services/marketplace/application/services"
)

// GetLedger handles GET /api/v1/ledger
//
//	@Summary	Ledger header
//	@Description	Returns the ledger's name (fixed at deployment) and the total number of products ever listed.
//	@Tags		ledger
//	@Produce	json
//	@Success	200	{object}	LedgerResponse
//	@Router		/ledger [get]
func GetLedger(svc *services.Services, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := svc.Ledger.Info(r.Context())
		if err != nil {
			log.ErrorContext(r.Context(), "ledger info failed", "error", err)
			errhttp.WriteError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, LedgerResponse{
			Name:         info.Name,
			ProductCount: info.ProductCount,
		})
	}
}
