// Package memory keeps attendance, employees, overtime rules, leave requests and shift swaps
// in process memory.
// It backs DB_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/leave"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-overtime/internal/domain/shift"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/database"
)

type Store struct {
	mu          sync.RWMutex
	attendances map[string]attendance.Attendance
	employees   map[string]attendance.Employee
	rules       *overtime.Rules
	leaves      map[string]leave.LeaveRequest
	swaps       map[string]shift.ShiftSwap

	txMu sync.Mutex
}

func NewStore() *Store {
	return &Store{
		attendances: make(map[string]attendance.Attendance),
		employees:   make(map[string]attendance.Employee),
		leaves:      make(map[string]leave.LeaveRequest),
		swaps:       make(map[string]shift.ShiftSwap),
	}
}

type txKey struct{}

type transactor struct {
	store *Store
}

// NewTransactor serializes transactions on the store. There is no rollback; callers only
// group reads with the write that depends on them.
func NewTransactor(store *Store) database.Transactor {
	return &transactor{store: store}
}

func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	return fn(context.WithValue(ctx, txKey{}, true))
}
