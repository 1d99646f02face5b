package overtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/overtime"
	"github.com/shopspring/decimal"
)

type OvertimeServiceImpl struct {
	rulesRepository overtime.RulesRepository
	rulesProvider   overtime.RulesProvider
	calculator      overtime.Calculator
}

func NewOvertimeService(
	rulesRepository overtime.RulesRepository,
	rulesProvider overtime.RulesProvider,
	calculator overtime.Calculator,
) overtime.OvertimeService {
	return &OvertimeServiceImpl{
		rulesRepository: rulesRepository,
		rulesProvider:   rulesProvider,
		calculator:      calculator,
	}
}

// GetRules implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) GetRules(ctx context.Context) (overtime.RulesResponse, error) {
	return overtime.NewRulesResponse(s.rulesProvider.Get(ctx)), nil
}

// UpdateRules implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) UpdateRules(ctx context.Context, req overtime.UpdateRulesRequest) (overtime.RulesResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.RulesResponse{}, err
	}

	saved, err := s.rulesRepository.Save(ctx, req.ToRules())
	if err != nil {
		return overtime.RulesResponse{}, fmt.Errorf("failed to save overtime rules: %w", err)
	}

	if err := s.rulesProvider.Refresh(ctx); err != nil {
		slog.Warn("Failed to refresh overtime rules after update", "error", err)
	}

	return overtime.NewRulesResponse(saved), nil
}

// Preview implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) Preview(ctx context.Context, req overtime.PreviewRequest) (overtime.BreakdownResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.BreakdownResponse{}, err
	}

	rules := s.rulesProvider.Get(ctx)
	breakdown, err := s.calculator.Compute(req.Session(), rules, decimal.NewFromFloat(req.PriorWeeklyHours))
	if err != nil {
		return overtime.BreakdownResponse{}, err
	}

	return overtime.NewBreakdownResponse(breakdown), nil
}
