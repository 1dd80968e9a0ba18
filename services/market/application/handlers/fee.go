package handlers

import (
	"net/http"

	"github.com/ghuser/marketledger/pkg/auth"
	"github.com/ghuser/marketledger/pkg/errhttp"
	"github.com/ghuser/marketledger/pkg/httpx"
	pkgvalidator "github.com/ghuser/marketledger/pkg/validator"
	appsvcs "github.com/ghuser/marketledger/services/market/application/services"
)

// FeeResponse is returned by GET /fee.
type FeeResponse struct {
	Percentage uint64 `json:"percentage" example:"2"`
} // @name FeeResponse

// GetFeeHandler handles GET /fee requests.
type GetFeeHandler struct {
	svc *appsvcs.Services
}

// NewGetFeeHandler returns a GetFeeHandler backed by the given services.
func NewGetFeeHandler(svc *appsvcs.Services) *GetFeeHandler {
	return &GetFeeHandler{svc: svc}
}

// Execute returns the current market fee percentage.
//
//	@Summary		Get fee percentage
//	@Description	Returns the market fee percentage currently applied to purchases.
//	@Tags			fee
//	@Produce		json
//	@Success		200	{object}	FeeResponse
//	@Router			/fee [get]
func (h *GetFeeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, FeeResponse{Percentage: h.svc.Market.FeePercentage(r.Context())})
}

// SetFeeRequest is the request body for PUT /fee.
type SetFeeRequest struct {
	Percentage uint64 `json:"percentage" validate:"lte=10" example:"5"`
} // @name SetFeeRequest

// SetFeeHandler handles PUT /fee requests.
type SetFeeHandler struct {
	svc *appsvcs.Services
}

// NewSetFeeHandler returns a SetFeeHandler backed by the given services.
func NewSetFeeHandler(svc *appsvcs.Services) *SetFeeHandler {
	return &SetFeeHandler{svc: svc}
}

// Execute changes the market fee percentage. Administrator only.
//
//	@Summary		Set fee percentage
//	@Description	Changes the market fee percentage applied to subsequent purchases. Requires the administrator capability; the maximum is 10.
//	@Tags			fee
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SetFeeRequest	true	"Fee change request"
//	@Success		200		{object}	FeeResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/fee [put]
func (h *SetFeeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.AccountFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	req, ok := pkgvalidator.ValidateRequest[SetFeeRequest](w, r)
	if !ok {
		return
	}

	if err := h.svc.Market.SetFeePercentage(r.Context(), caller, req.Percentage); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, FeeResponse{Percentage: req.Percentage})
}

// QuoteFeeResponse is returned by GET /items/{id}/fee.
type QuoteFeeResponse struct {
	Fee uint64 `json:"fee" example:"5000000"`
} // @name QuoteFeeResponse

// QuoteFeeHandler handles GET /items/{id}/fee requests.
type QuoteFeeHandler struct {
	svc *appsvcs.Services
}

// NewQuoteFeeHandler returns a QuoteFeeHandler backed by the given services.
func NewQuoteFeeHandler(svc *appsvcs.Services) *QuoteFeeHandler {
	return &QuoteFeeHandler{svc: svc}
}

// Execute quotes the fee a purchase of the listed item would incur now.
//
//	@Summary		Quote purchase fee
//	@Description	Returns the fee a purchase of the listed item would incur at the current fee percentage.
//	@Tags			fee
//	@Produce		json
//	@Param			id	path		int	true	"Item ID"
//	@Success		200	{object}	QuoteFeeResponse
//	@Failure		409	{object}	ErrorResponse
//	@Router			/items/{id}/fee [get]
func (h *QuoteFeeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	fee, err := h.svc.Market.QuoteFee(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, QuoteFeeResponse{Fee: fee})
}
