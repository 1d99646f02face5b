package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/shift"
	"github.com/google/uuid"
)

type ShiftSwapRepository struct {
	store *Store
	now   func() time.Time
}

func NewShiftSwapRepository(store *Store) *ShiftSwapRepository {
	return &ShiftSwapRepository{store: store, now: time.Now}
}

func (r *ShiftSwapRepository) withEmployees(s shift.ShiftSwap) shift.ShiftSwap {
	if emp, ok := r.store.employees[s.EmployeeID]; ok {
		name := emp.Name
		s.EmployeeName = &name
	}
	if emp, ok := r.store.employees[s.SwapWithID]; ok {
		name := emp.Name
		s.SwapWithName = &name
	}
	return s
}

// Create implements shift.ShiftSwapRepository.
func (r *ShiftSwapRepository) Create(_ context.Context, swap shift.ShiftSwap) (shift.ShiftSwap, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.now()
	swap.ID = uuid.Must(uuid.NewV7()).String()
	swap.CreatedAt = now
	swap.UpdatedAt = now
	r.store.swaps[swap.ID] = swap

	return r.withEmployees(swap), nil
}

// GetByID implements shift.ShiftSwapRepository.
func (r *ShiftSwapRepository) GetByID(_ context.Context, id string) (shift.ShiftSwap, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	s, ok := r.store.swaps[id]
	if !ok {
		return shift.ShiftSwap{}, shift.ErrShiftSwapNotFound
	}
	return r.withEmployees(s), nil
}

// List implements shift.ShiftSwapRepository.
func (r *ShiftSwapRepository) List(_ context.Context, filter shift.ShiftSwapFilter) ([]shift.ShiftSwap, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []shift.ShiftSwap
	for _, s := range r.store.swaps {
		if filter.InvolvingID != nil && *filter.InvolvingID != "" && !s.Involves(*filter.InvolvingID) {
			continue
		}
		if filter.Status != nil && *filter.Status != "" && string(s.Status) != *filter.Status {
			continue
		}
		matched = append(matched, r.withEmployees(s))
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	start := min(filter.Offset(), len(matched))
	end := len(matched)
	if filter.Limit > 0 {
		end = min(start+filter.Limit, len(matched))
	}
	return matched[start:end], total, nil
}

// HasPending implements shift.ShiftSwapRepository.
func (r *ShiftSwapRepository) HasPending(_ context.Context, employeeID string, date time.Time) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, s := range r.store.swaps {
		if s.EmployeeID == employeeID && s.IsPending() && dateKey(s.ShiftDate) == dateKey(date) {
			return true, nil
		}
	}
	return false, nil
}

// Decide implements shift.ShiftSwapRepository.
func (r *ShiftSwapRepository) Decide(_ context.Context, d shift.Decision) (shift.ShiftSwap, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	s, ok := r.store.swaps[d.ID]
	if !ok {
		return shift.ShiftSwap{}, shift.ErrShiftSwapNotFound
	}
	if !s.IsPending() {
		return shift.ShiftSwap{}, shift.ErrShiftSwapAlreadyProcessed
	}

	decidedBy := d.DecidedBy
	decidedAt := d.DecidedAt
	s.Status = d.Status
	s.DecidedBy = &decidedBy
	s.DecidedAt = &decidedAt
	s.RejectionReason = d.RejectionReason
	s.UpdatedAt = r.now()
	r.store.swaps[d.ID] = s

	return r.withEmployees(s), nil
}
