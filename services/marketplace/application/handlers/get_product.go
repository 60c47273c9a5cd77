package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/marketledger/pkg/errhttp"
	"github.com/ghuser/marketledger/pkg/httpx"
	"github.com/ghuser/marketledger/pkg/logger"
	"github.com/ghuser/marketledger/services/marketplace/application/services"
)

// GetProduct handles GET /api/v1/products/{id}
//
//	@Summary	Get a product by id
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"Product id"
//	@Success	200	{object}	ProductResponse
//	@Failure	404	{object}	map[string]string	"No product with this id"
//	@Router		/products/{id} [get]
func GetProduct(svc *services.Services, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "product id must be an integer")
			return
		}

		product, err := svc.Ledger.GetByID(r.Context(), id)
		if err != nil {
			errhttp.WriteError(w, err)
			return
		}

		httpx.JSON(w, http.StatusOK, newProductResponse(product))
	}
}
