package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/leave"
	"github.com/google/uuid"
)

type LeaveRequestRepository struct {
	store *Store
	now   func() time.Time
}

func NewLeaveRequestRepository(store *Store) *LeaveRequestRepository {
	return &LeaveRequestRepository{store: store, now: time.Now}
}

func (r *LeaveRequestRepository) withEmployee(lr leave.LeaveRequest) leave.LeaveRequest {
	if emp, ok := r.store.employees[lr.EmployeeID]; ok {
		name := emp.Name
		lr.EmployeeName = &name
	}
	return lr
}

// Create implements leave.LeaveRequestRepository.
func (r *LeaveRequestRepository) Create(_ context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.now()
	request.ID = uuid.Must(uuid.NewV7()).String()
	request.CreatedAt = now
	request.UpdatedAt = now
	r.store.leaves[request.ID] = request

	return r.withEmployee(request), nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *LeaveRequestRepository) GetByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	lr, ok := r.store.leaves[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r.withEmployee(lr), nil
}

// List implements leave.LeaveRequestRepository.
func (r *LeaveRequestRepository) List(_ context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []leave.LeaveRequest
	for _, lr := range r.store.leaves {
		if filter.EmployeeID != nil && *filter.EmployeeID != "" && lr.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && *filter.Status != "" && string(lr.Status) != *filter.Status {
			continue
		}
		if filter.LeaveType != nil && *filter.LeaveType != "" && string(lr.Type) != *filter.LeaveType {
			continue
		}
		matched = append(matched, r.withEmployee(lr))
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

// HasOverlap implements leave.LeaveRequestRepository.
func (r *LeaveRequestRepository) HasOverlap(_ context.Context, employeeID string, from, to time.Time) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, lr := range r.store.leaves {
		if lr.EmployeeID != employeeID {
			continue
		}
		if lr.Status != leave.LeaveRequestStatusPending && lr.Status != leave.LeaveRequestStatusApproved {
			continue
		}
		if lr.Overlaps(from, to) {
			return true, nil
		}
	}
	return false, nil
}

// Decide implements leave.LeaveRequestRepository.
func (r *LeaveRequestRepository) Decide(_ context.Context, d leave.Decision) (leave.LeaveRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	lr, ok := r.store.leaves[d.ID]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if !lr.IsPending() {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	decidedBy := d.DecidedBy
	decidedAt := d.DecidedAt
	lr.Status = d.Status
	lr.DecidedBy = &decidedBy
	lr.DecidedAt = &decidedAt
	lr.RejectionReason = d.RejectionReason
	lr.UpdatedAt = r.now()
	r.store.leaves[d.ID] = lr

	return r.withEmployee(lr), nil
}
