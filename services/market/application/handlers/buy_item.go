package handlers

import (
	"net/http"

	"github.com/ghuser/marketledger/pkg/auth"
	"github.com/ghuser/marketledger/pkg/errhttp"
	"github.com/ghuser/marketledger/pkg/httpx"
	appsvcs "github.com/ghuser/marketledger/services/market/application/services"
)

// PurchaseResponse is returned on a successful purchase.
type PurchaseResponse struct {
	Item   ItemResponse `json:"item"`
	Seller string       `json:"seller" example:"alice"`
	Fee    uint64       `json:"fee"    example:"5000000"`
} // @name PurchaseResponse

// BuyItemHandler handles POST /items/{id}/buy requests.
type BuyItemHandler struct {
	svc *appsvcs.Services
}

// NewBuyItemHandler returns a BuyItemHandler backed by the given services.
func NewBuyItemHandler(svc *appsvcs.Services) *BuyItemHandler {
	return &BuyItemHandler{svc: svc}
}

// Execute purchases the item for the calling account.
//
//	@Summary		Buy item
//	@Description	Purchases a listed item. The caller must have approved the market's spender account for at least the item price. A 502 means ownership transferred but payment settlement failed and is being reconciled.
//	@Tags			items
//	@Produce		json
//	@Param			id	path		int	true	"Item ID"
//	@Success		200	{object}	PurchaseResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		402	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Failure		502	{object}	ErrorResponse
//	@Router			/items/{id}/buy [post]
func (h *BuyItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.AccountFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	id, ok := itemID(w, r)
	if !ok {
		return
	}

	purchase, err := h.svc.Market.Buy(r.Context(), id, caller)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, PurchaseResponse{
		Item:   toItemResponse(purchase.Item),
		Seller: purchase.Seller.String(),
		Fee:    purchase.Fee,
	})
}
