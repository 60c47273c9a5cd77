package handlers

import (
	"net/http"
	"strconv"

	"github.com/ghuser/marketledger/pkg/errhttp"
	"github.com/ghuser/marketledger/pkg/httpx"
	"github.com/ghuser/marketledger/pkg/logger"
	"github.com/ghuser/marketledger/services/marketplace/application/services"
	"github.com/ghuser/marketledger/services/marketplace/domain/repositories"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// ListProductsResponse is a page of the catalog in id order.
type ListProductsResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// ListProducts handles GET /api/v1/products
//
//	@Summary	List products
//	@Description	Returns catalog entries in ascending id order. Purchased products are included.
//	@Tags		products
//	@Produce	json
//	@Param		limit	query		int	false	"Page size (max 200)"	default(50)
//	@Param		offset	query		int	false	"Offset"				default(0)
//	@Success	200		{object}	ListProductsResponse
//	@Router		/products [get]
func ListProducts(svc *services.Services, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := repositories.QueryOpts{Limit: defaultPageSize}

		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				httpx.JSONError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			opts.Limit = min(n, maxPageSize)
		}
		if v := r.URL.Query().Get("offset"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				httpx.JSONError(w, http.StatusBadRequest, "offset must be a non-negative integer")
				return
			}
			opts.Offset = n
		}

		products, total, err := svc.Ledger.List(r.Context(), opts)
		if err != nil {
			log.ErrorContext(r.Context(), "list products failed", "error", err)
			errhttp.WriteError(w, err)
			return
		}

		resp := ListProductsResponse{
			Products: make([]ProductResponse, 0, len(products)),
			Total:    total,
			Limit:    opts.Limit,
			Offset:   opts.Offset,
		}
		for _, p := range products {
			resp.Products = append(resp.Products, newProductResponse(p))
		}
		httpx.JSON(w, http.StatusOK, resp)
	}
}
