package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/overtime"
	"github.com/google/uuid"
)

type overtimeRulesRepository struct {
	store *Store
}

func NewOvertimeRulesRepository(store *Store) overtime.RulesRepository {
	return &overtimeRulesRepository{store: store}
}

// Get implements overtime.RulesRepository.
func (r *overtimeRulesRepository) Get(_ context.Context) (overtime.Rules, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if r.store.rules == nil {
		return overtime.Rules{}, overtime.ErrRulesNotFound
	}
	return *r.store.rules, nil
}

// Save implements overtime.RulesRepository.
func (r *overtimeRulesRepository) Save(_ context.Context, rules overtime.Rules) (overtime.Rules, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.rules != nil {
		rules.ID = r.store.rules.ID
	} else {
		rules.ID = uuid.Must(uuid.NewV7()).String()
	}
	rules.UpdatedAt = time.Now()
	r.store.rules = &rules
	return rules, nil
}
