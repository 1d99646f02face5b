package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type overtimeRulesRepository struct {
	db *database.DB
}

func NewOvertimeRulesRepository(db *database.DB) overtime.RulesRepository {
	return &overtimeRulesRepository{db: db}
}

// Get implements overtime.RulesRepository.
func (r *overtimeRulesRepository) Get(ctx context.Context) (overtime.Rules, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, daily_threshold, weekly_threshold, rate_multiplier,
			   double_time_threshold, double_time_multiplier, updated_at
		FROM overtime_rules
		WHERE singleton
	`

	var rules overtime.Rules
	err := q.QueryRow(ctx, query).Scan(
		&rules.ID, &rules.DailyThreshold, &rules.WeeklyThreshold, &rules.RateMultiplier,
		&rules.DoubleTimeThreshold, &rules.DoubleTimeMultiplier, &rules.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.Rules{}, overtime.ErrRulesNotFound
		}
		return overtime.Rules{}, fmt.Errorf("failed to get overtime rules: %w", err)
	}

	return rules, nil
}

// Save implements overtime.RulesRepository.
func (r *overtimeRulesRepository) Save(ctx context.Context, rules overtime.Rules) (overtime.Rules, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return overtime.Rules{}, fmt.Errorf("failed to generate rules id: %w", err)
	}

	query := `
		INSERT INTO overtime_rules (
			id, daily_threshold, weekly_threshold, rate_multiplier,
			double_time_threshold, double_time_multiplier
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (singleton) DO UPDATE SET
			daily_threshold = EXCLUDED.daily_threshold,
			weekly_threshold = EXCLUDED.weekly_threshold,
			rate_multiplier = EXCLUDED.rate_multiplier,
			double_time_threshold = EXCLUDED.double_time_threshold,
			double_time_multiplier = EXCLUDED.double_time_multiplier,
			updated_at = NOW()
		RETURNING id, updated_at
	`

	err = q.QueryRow(ctx, query,
		id.String(),
		rules.DailyThreshold,
		rules.WeeklyThreshold,
		rules.RateMultiplier,
		rules.DoubleTimeThreshold,
		rules.DoubleTimeMultiplier,
	).Scan(&rules.ID, &rules.UpdatedAt)
	if err != nil {
		return overtime.Rules{}, fmt.Errorf("failed to save overtime rules: %w", err)
	}

	return rules, nil
}
