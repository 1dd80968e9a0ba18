package handlers

import (
	"net/http"

	"github.com/ghuser/marketledger/pkg/auth"
	"github.com/ghuser/marketledger/pkg/errhttp"
	"github.com/ghuser/marketledger/pkg/httpx"
	pkgvalidator "github.com/ghuser/marketledger/pkg/validator"
	appsvcs "github.com/ghuser/marketledger/services/market/application/services"
)

// ListItemRequest is the request body for POST /items.
type ListItemRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200" example:"Painting"`
	Description string `json:"description" validate:"max=2000" example:"Oil on canvas"`
	Image       string `json:"image" validate:"max=2000" example:"ipfs://Qm..."`
	Location    string `json:"location" validate:"required,max=200" example:"Berlin"`
	Price       uint64 `json:"price" validate:"required,gte=1" example:"250000000"`
} // @name ListItemRequest

// ListItemHandler handles POST /items requests.
type ListItemHandler struct {
	svc *appsvcs.Services
}

// NewListItemHandler returns a ListItemHandler backed by the given services.
func NewListItemHandler(svc *appsvcs.Services) *ListItemHandler {
	return &ListItemHandler{svc: svc}
}

// Execute lists a new item owned by the calling account.
//
//	@Summary		List item
//	@Description	Creates a new item listing owned by the calling account. The price is in smallest payment-token units and must be at least one whole token.
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ListItemRequest	true	"Item listing request"
//	@Success		201		{object}	ItemResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/items [post]
func (h *ListItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.AccountFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	req, ok := pkgvalidator.ValidateRequest[ListItemRequest](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Market.ListItem(r.Context(), caller, req.Name, req.Description, req.Image, req.Location, req.Price)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toItemResponse(item))
}
