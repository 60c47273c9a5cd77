package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/marketledger/pkg/auth"
	"github.com/ghuser/marketledger/pkg/errhttp"
	"github.com/ghuser/marketledger/pkg/httpx"
	"github.com/ghuser/marketledger/pkg/logger"
	pkgvalidator "github.com/ghuser/marketledger/pkg/validator"
	"github.com/ghuser/marketledger/services/marketplace/application/services"
	"github.com/ghuser/marketledger/services/marketplace/domain/models"
)

// PurchaseProductRequest carries the value the caller attaches to the purchase.
// The attached value must equal the listed price exactly.
type PurchaseProductRequest struct {
	AttachedValue int64 `json:"attached_value" validate:"required,gt=0"`
}

// PurchaseProduct handles POST /api/v1/products/{id}/purchase
//
//	@Summary		Purchase a product
//	@Description	Atomically transfers the attached value to the seller and marks the product purchased. Each product can be purchased exactly once.
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"Product id"
//	@Param			request	body		PurchaseProductRequest	true	"Attached value"
//	@Success		200		{object}	ProductResponse
//	@Failure		401		{object}	map[string]string	"Not authenticated"
//	@Failure		402		{object}	map[string]string	"Attached value does not equal the price, or insufficient funds"
//	@Failure		403		{object}	map[string]string	"Caller owns the product"
//	@Failure		404		{object}	map[string]string	"No product with this id"
//	@Failure		409		{object}	map[string]string	"Product already purchased"
//	@Router			/products/{id}/purchase [post]
func PurchaseProduct(svc *services.Services, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, err := auth.AccountIDFromCtx(r.Context())
		if err != nil {
			httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "product id must be an integer")
			return
		}

		req, ok := pkgvalidator.ValidateRequest[PurchaseProductRequest](w, r)
		if !ok {
			return
		}

		caller := models.NewCallerContext(accountID, req.AttachedValue)

		product, err := svc.Ledger.Purchase(r.Context(), id, caller)
		if err != nil {
			log.WarnContext(r.Context(), "purchase rejected",
				"product_id", id,
				"buyer", accountID,
				"error", err,
			)
			errhttp.WriteError(w, err)
			return
		}

		log.InfoContext(r.Context(), "product purchased",
			"product_id", product.ID,
			"buyer", accountID,
			"price", product.Price.Int64(),
		)
		httpx.JSON(w, http.StatusOK, newProductResponse(product))
	}
}
