package handlers

import (
	"net/http"

	"github.com/ghuser/marketledger/pkg/errhttp"
	"github.com/ghuser/marketledger/pkg/httpx"
	appsvcs "github.com/ghuser/marketledger/services/market/application/services"
)

// GetItemHandler handles GET /items/{id} requests.
type GetItemHandler struct {
	svc *appsvcs.Services
}

// NewGetItemHandler returns a GetItemHandler backed by the given services.
func NewGetItemHandler(svc *appsvcs.Services) *GetItemHandler {
	return &GetItemHandler{svc: svc}
}

// Execute returns the full item with its transaction history.
//
//	@Summary		Get item
//	@Description	Returns the item and its complete transaction history. Unlisted items remain readable forever.
//	@Tags			items
//	@Produce		json
//	@Param			id	path		int	true	"Item ID"
//	@Success		200	{object}	ItemResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/items/{id} [get]
func (h *GetItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	item, err := h.svc.Market.GetItem(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}

// ItemSummaryResponse is the denormalized item read model.
type ItemSummaryResponse struct {
	ID       uint64 `json:"id"       example:"0"`
	Name     string `json:"name"     example:"Painting"`
	Location string `json:"location" example:"Berlin"`
	Price    uint64 `json:"price"    example:"250000000"`
	Owner    string `json:"owner"    example:"alice"`
	Listed   bool   `json:"listed"   example:"true"`
} // @name ItemSummaryResponse

// GetItemSummaryHandler handles GET /items/{id}/summary requests.
type GetItemSummaryHandler struct {
	svc *appsvcs.Services
}

// NewGetItemSummaryHandler returns a GetItemSummaryHandler backed by the given services.
func NewGetItemSummaryHandler(svc *appsvcs.Services) *GetItemSummaryHandler {
	return &GetItemSummaryHandler{svc: svc}
}

// Execute returns the cached item summary, served from Redis when warm.
//
//	@Summary		Get item summary
//	@Description	Returns the denormalized item read model without history, served from the Redis cache when available.
//	@Tags			items
//	@Produce		json
//	@Param			id	path		int	true	"Item ID"
//	@Success		200	{object}	ItemSummaryResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/items/{id}/summary [get]
func (h *GetItemSummaryHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	summary, err := h.svc.Market.Summary(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, ItemSummaryResponse{
		ID:       summary.ID,
		Name:     summary.Name,
		Location: summary.Location,
		Price:    summary.Price,
		Owner:    summary.Owner,
		Listed:   summary.Listed,
	})
}

// CountResponse is returned by GET /items/count.
type CountResponse struct {
	Count uint64 `json:"count" example:"42"`
} // @name CountResponse

// CountItemsHandler handles GET /items/count requests.
type CountItemsHandler struct {
	svc *appsvcs.Services
}

// NewCountItemsHandler returns a CountItemsHandler backed by the given services.
func NewCountItemsHandler(svc *appsvcs.Services) *CountItemsHandler {
	return &CountItemsHandler{svc: svc}
}

// Execute returns the total number of items ever created.
//
//	@Summary		Count items
//	@Description	Returns the total number of items ever created, including unlisted ones.
//	@Tags			items
//	@Produce		json
//	@Success		200	{object}	CountResponse
//	@Router			/items/count [get]
func (h *CountItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, CountResponse{Count: h.svc.Market.Count(r.Context())})
}
