package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/shift"
	"github.com/cmlabs-hris/hris-overtime/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-overtime/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
)

type ShiftSwapHandler interface {
	CreateSwap(w http.ResponseWriter, r *http.Request)
	ListSwaps(w http.ResponseWriter, r *http.Request)
	ApproveSwap(w http.ResponseWriter, r *http.Request)
	RejectSwap(w http.ResponseWriter, r *http.Request)
	CancelSwap(w http.ResponseWriter, r *http.Request)
}

type shiftSwapHandlerImpl struct {
	shiftSwapService shift.ShiftSwapService
}

func NewShiftSwapHandler(shiftSwapService shift.ShiftSwapService) ShiftSwapHandler {
	return &shiftSwapHandlerImpl{shiftSwapService: shiftSwapService}
}

// CreateSwap implements ShiftSwapHandler.
func (h *shiftSwapHandlerImpl) CreateSwap(w http.ResponseWriter, r *http.Request) {
	principal, err := employeePrincipal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req shift.CreateShiftSwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateSwap decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.shiftSwapService.CreateShiftSwap(r.Context(), principal, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift swap requested successfully", resp)
}

// ListSwaps implements ShiftSwapHandler.
func (h *shiftSwapHandlerImpl) ListSwaps(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		response.HandleError(w, jwt.ErrInvalidClaims)
		return
	}

	filter := shift.ShiftSwapFilter{
		InvolvingID: queryString(r, "employee_id"),
		Status:      queryString(r, "status"),
	}
	queryInt(r, "page", &filter.Page)
	queryInt(r, "limit", &filter.Limit)

	list, err := h.shiftSwapService.ListShiftSwaps(r.Context(), principal, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, list, response.NewMeta(list.Page, list.Limit, list.TotalCount))
}

// ApproveSwap implements ShiftSwapHandler.
func (h *shiftSwapHandlerImpl) ApproveSwap(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		response.HandleError(w, jwt.ErrInvalidClaims)
		return
	}

	resp, err := h.shiftSwapService.ApproveShiftSwap(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift swap approved successfully", resp)
}

// RejectSwap implements ShiftSwapHandler. The body is optional.
func (h *shiftSwapHandlerImpl) RejectSwap(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		response.HandleError(w, jwt.ErrInvalidClaims)
		return
	}

	var req shift.RejectShiftSwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("RejectSwap decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.shiftSwapService.RejectShiftSwap(r.Context(), principal, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift swap rejected successfully", resp)
}

// CancelSwap implements ShiftSwapHandler.
func (h *shiftSwapHandlerImpl) CancelSwap(w http.ResponseWriter, r *http.Request) {
	principal, err := employeePrincipal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.shiftSwapService.CancelShiftSwap(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift swap cancelled successfully", resp)
}
