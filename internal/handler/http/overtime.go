package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-overtime/internal/handler/http/response"
)

type OvertimeHandler interface {
	GetRules(w http.ResponseWriter, r *http.Request)
	UpdateRules(w http.ResponseWriter, r *http.Request)
	Preview(w http.ResponseWriter, r *http.Request)
}

type overtimeHandlerImpl struct {
	overtimeService overtime.OvertimeService
}

func NewOvertimeHandler(overtimeService overtime.OvertimeService) OvertimeHandler {
	return &overtimeHandlerImpl{overtimeService: overtimeService}
}

// GetRules implements OvertimeHandler.
func (h *overtimeHandlerImpl) GetRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.overtimeService.GetRules(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rules)
}

// UpdateRules implements OvertimeHandler.
func (h *overtimeHandlerImpl) UpdateRules(w http.ResponseWriter, r *http.Request) {
	var req overtime.UpdateRulesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update overtime rules decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	rules, err := h.overtimeService.UpdateRules(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Overtime rules updated")
	response.SuccessWithMessage(w, "Overtime rules updated", rules)
}

// Preview implements OvertimeHandler.
func (h *overtimeHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	var req overtime.PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	breakdown, err := h.overtimeService.Preview(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, breakdown)
}
