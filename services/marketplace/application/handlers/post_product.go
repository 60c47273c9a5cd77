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

// CreateProductRequest is the payload for listing a new product.
type CreateProductRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=255"`
	Price int64  `json:"price" validate:"required,gt=0"`
}

// CreateProduct handles POST /api/v1/products
//
//	@Summary		List a product for sale
//	@Description	Appends a new product to the catalog, owned by the caller. The id is assigned by the ledger and is dense and monotonic.
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateProductRequest	true	"Product to list"
//	@Success		201		{object}	ProductResponse
//	@Failure		400		{object}	map[string]string	"Invalid JSON"
//	@Failure		401		{object}	map[string]string	"Not authenticated"
//	@Failure		422		{object}	map[string]any		"Validation failed"
//	@Router			/products [post]
func CreateProduct(svc *services.Services, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, err := auth.AccountIDFromCtx(r.Context())
		if err != nil {
			httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		req, ok := pkgvalidator.ValidateRequest[CreateProductRequest](w, r)
		if !ok {
			return
		}

		product, err := svc.Ledger.Create(r.Context(), accountID, req.Name, req.Price)
		if err != nil {
			log.WarnContext(r.Context(), "create product rejected", "error", err)
			errhttp.WriteError(w, err)
			return
		}

		log.InfoContext(r.Context(), "product listed",
			"product_id", product.ID,
			"owner", accountID,
			"price", product.Price.Int64(),
		)
		httpx.JSON(w, http.StatusCreated, newProductResponse(product))
	}
}
