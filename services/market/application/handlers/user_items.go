package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/marketledger/pkg/auth"
	"github.com/ghuser/marketledger/pkg/errhttp"
	"github.com/ghuser/marketledger/pkg/httpx"
	appsvcs "github.com/ghuser/marketledger/services/market/application/services"
	"github.com/ghuser/marketledger/services/market/domain/models"
)

// OwnedItemsResponse is returned by GET /accounts/{account}/items.
type OwnedItemsResponse struct {
	Items []ItemResponse `json:"items"`
} // @name OwnedItemsResponse

// OwnedItemsHandler handles GET /accounts/{account}/items requests.
type OwnedItemsHandler struct {
	svc *appsvcs.Services
}

// NewOwnedItemsHandler returns an OwnedItemsHandler backed by the given services.
func NewOwnedItemsHandler(svc *appsvcs.Services) *OwnedItemsHandler {
	return &OwnedItemsHandler{svc: svc}
}

// Execute walks the queried account's ownership index and returns the entries
// the calling account currently owns. Callers querying another account's
// index therefore get an empty list unless items changed hands between them.
//
//	@Summary		Owned items
//	@Description	Returns the items from the queried account's ownership index that the calling account currently owns.
//	@Tags			accounts
//	@Produce		json
//	@Param			account	path		string	true	"Account name"
//	@Success		200		{object}	OwnedItemsResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Router			/accounts/{account}/items [get]
func (h *OwnedItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.AccountFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	account, ok := models.NewAccount(chi.URLParam(r, "account"))
	if !ok {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid account"})
		return
	}

	items, err := h.svc.Market.OwnedBy(r.Context(), caller, account)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	out := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	httpx.JSON(w, http.StatusOK, OwnedItemsResponse{Items: out})
}
