// Package handlers contains the HTTP handlers for the market API. Each
// handler is a small struct around the service container with an Execute
// method, registered in application/api.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/marketledger/pkg/httpx"
	"github.com/ghuser/marketledger/services/market/domain/models"
)

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"item is not listed"`
} // @name ErrorResponse

// TransactionResponse is one entry of an item's history.
type TransactionResponse struct {
	Kind      string    `json:"kind"       example:"BUY"`
	From      string    `json:"from"       example:"alice"`
	Price     uint64    `json:"price"      example:"250000000"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// ItemResponse is the full item representation, history included.
type ItemResponse struct {
	ID          uint64                `json:"id"          example:"0"`
	Name        string                `json:"name"        example:"Painting"`
	Description string                `json:"description" example:"Oil on canvas"`
	Image       string                `json:"image"       example:"ipfs://Qm..."`
	Location    string                `json:"location"    example:"Berlin"`
	Price       uint64                `json:"price"       example:"250000000"`
	Owner       string                `json:"owner"       example:"alice"`
	Listed      bool                  `json:"listed"      example:"true"`
	History     []TransactionResponse `json:"history"`
} // @name ItemResponse

func toItemResponse(item models.Item) ItemResponse {
	history := make([]TransactionResponse, 0, len(item.History))
	for _, tx := range item.History {
		history = append(history, TransactionResponse{
			Kind:      tx.Kind.String(),
			From:      tx.From.String(),
			Price:     tx.Price,
			CreatedAt: tx.CreatedAt,
		})
	}
	return ItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Image:       item.Image,
		Location:    item.Location,
		Price:       item.Price,
		Owner:       item.Owner.String(),
		Listed:      item.Listed,
		History:     history,
	}
}

// itemID parses the {id} URL parameter. Writes a 400 response and returns
// false when the parameter is not a valid item identifier.
func itemID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid item id"})
		return 0, false
	}
	return id, true
}
