package handlers

import (
	"net/http"

	"github.com/ghuser/marketledger/pkg/auth"
	"github.com/ghuser/marketledger/pkg/errhttp"
	"github.com/ghuser/marketledger/pkg/httpx"
	pkgvalidator "github.com/ghuser/marketledger/pkg/validator"
	appsvcs "github.com/ghuser/marketledger/services/market/application/services"
)

// UnlistItemHandler handles POST /items/{id}/unlist requests.
type UnlistItemHandler struct {
	svc *appsvcs.Services
}

// NewUnlistItemHandler returns an UnlistItemHandler backed by the given services.
func NewUnlistItemHandler(svc *appsvcs.Services) *UnlistItemHandler {
	return &UnlistItemHandler{svc: svc}
}

// Execute takes the caller-owned item off the market.
//
//	@Summary		Unlist item
//	@Description	Removes a caller-owned listing from the market. The item keeps its history; its price is zeroed until relisted.
//	@Tags			items
//	@Produce		json
//	@Param			id	path		int	true	"Item ID"
//	@Success		200	{object}	ItemResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Router			/items/{id}/unlist [post]
func (h *UnlistItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.AccountFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	id, ok := itemID(w, r)
	if !ok {
		return
	}

	item, err := h.svc.Market.Unlist(r.Context(), id, caller)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}

// RelistItemRequest is the request body for POST /items/{id}/relist.
type RelistItemRequest struct {
	Location string `json:"location" validate:"required,max=200" example:"Paris"`
	Price    uint64 `json:"price" validate:"required,gte=1" example:"300000000"`
} // @name RelistItemRequest

// RelistItemHandler handles POST /items/{id}/relist requests.
type RelistItemHandler struct {
	svc *appsvcs.Services
}

// NewRelistItemHandler returns a RelistItemHandler backed by the given services.
func NewRelistItemHandler(svc *appsvcs.Services) *RelistItemHandler {
	return &RelistItemHandler{svc: svc}
}

// Execute puts an unlisted caller-owned item back on the market.
//
//	@Summary		Relist item
//	@Description	Puts an unlisted caller-owned item back on the market with a fresh location and price.
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int					true	"Item ID"
//	@Param			request	body		RelistItemRequest	true	"Relist request"
//	@Success		200		{object}	ItemResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/items/{id}/relist [post]
func (h *RelistItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.AccountFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	id, ok := itemID(w, r)
	if !ok {
		return
	}

	req, ok := pkgvalidator.ValidateRequest[RelistItemRequest](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Market.Relist(r.Context(), id, caller, req.Location, req.Price)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}
