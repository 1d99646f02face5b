package overtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/metrics"
)

// RulesProviderImpl caches the stored rule set for ttl. When the store cannot be read
// it keeps serving the last good rules, or DefaultRules if it never had any.
type RulesProviderImpl struct {
	rulesRepository overtime.RulesRepository
	metrics         *metrics.Metrics
	ttl             time.Duration
	now             func() time.Time

	mu        sync.RWMutex
	cached    *overtime.Rules
	fetchedAt time.Time
}

func NewRulesProvider(rulesRepository overtime.RulesRepository, m *metrics.Metrics, ttl time.Duration) *RulesProviderImpl {
	return &RulesProviderImpl{
		rulesRepository: rulesRepository,
		metrics:         m,
		ttl:             ttl,
		now:             time.Now,
	}
}

// Get never fails. Store errors are logged and answered with fallback rules.
func (p *RulesProviderImpl) Get(ctx context.Context) overtime.Rules {
	if rules, ok := p.fresh(); ok {
		return rules
	}

	if err := p.Refresh(ctx); err != nil {
		p.metrics.RulesFallback()

		p.mu.RLock()
		defer p.mu.RUnlock()
		if p.cached != nil {
			slog.Warn("Overtime rules unavailable, using last known rules", "error", err)
			return *p.cached
		}
		slog.Warn("Overtime rules unavailable, using default rules", "error", err)
		return overtime.DefaultRules()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	return *p.cached
}

// Refresh reloads the rules from the store. A store with no rules configured caches the
// defaults; read failures and invalid stored rules leave the cache untouched.
func (p *RulesProviderImpl) Refresh(ctx context.Context) error {
	rules, err := p.rulesRepository.Get(ctx)
	if err != nil {
		if !errors.Is(err, overtime.ErrRulesNotFound) {
			return fmt.Errorf("%w: %v", overtime.ErrRulesUnavailable, err)
		}
		rules = overtime.DefaultRules()
	}

	if err := rules.Validate(); err != nil {
		return fmt.Errorf("%w: stored rules are invalid: %v", overtime.ErrRulesUnavailable, err)
	}

	p.mu.Lock()
	p.cached = &rules
	p.fetchedAt = p.now()
	p.mu.Unlock()

	return nil
}

func (p *RulesProviderImpl) fresh() (overtime.Rules, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.cached == nil || p.ttl <= 0 || p.now().Sub(p.fetchedAt) >= p.ttl {
		return overtime.Rules{}, false
	}
	return *p.cached, true
}
