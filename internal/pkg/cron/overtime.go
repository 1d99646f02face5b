package cron

import (
	"context"
	"fmt"
	"time"
)

// RulesRefresher reloads the cached overtime rules from the store.
type RulesRefresher interface {
	Refresh(ctx context.Context) error
}

type OvertimeJobs struct {
	rules   RulesRefresher
	refresh time.Duration
}

func NewOvertimeJobs(rules RulesRefresher, refresh time.Duration) *OvertimeJobs {
	return &OvertimeJobs{
		rules:   rules,
		refresh: refresh,
	}
}

func (j *OvertimeJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("refresh_overtime_rules", j.refresh, j.RefreshRules)
}

// RefreshRules warms the rules cache so clock-outs rarely read the store.
func (j *OvertimeJobs) RefreshRules(ctx context.Context) error {
	if err := j.rules.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to refresh overtime rules: %w", err)
	}
	return nil
}
