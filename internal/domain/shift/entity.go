package shift

import "time"

type SwapStatus string

const (
	SwapStatusPending   SwapStatus = "pending"
	SwapStatusApproved  SwapStatus = "approved"
	SwapStatusRejected  SwapStatus = "rejected"
	SwapStatusCancelled SwapStatus = "cancelled"
)

var validStatuses = []string{
	string(SwapStatusPending),
	string(SwapStatusApproved),
	string(SwapStatusRejected),
	string(SwapStatusCancelled),
}

// ShiftSwap is a request by EmployeeID to hand the shift on ShiftDate to SwapWithID.
// ShiftStart and ShiftEnd are HH:MM; an end before the start crosses midnight.
type ShiftSwap struct {
	ID         string
	EmployeeID string
	SwapWithID string
	ShiftDate  time.Time
	ShiftStart string
	ShiftEnd   string
	Reason     string

	Status          SwapStatus
	DecidedBy       *string
	DecidedAt       *time.Time
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	EmployeeName *string
	SwapWithName *string
}

func (s ShiftSwap) IsPending() bool {
	return s.Status == SwapStatusPending
}

// Involves reports whether employeeID requested the swap or was asked to cover it.
func (s ShiftSwap) Involves(employeeID string) bool {
	return s.EmployeeID == employeeID || s.SwapWithID == employeeID
}

// Decision moves a pending swap to its final status. Only pending rows are updated.
type Decision struct {
	ID              string
	Status          SwapStatus
	DecidedBy       string
	DecidedAt       time.Time
	RejectionReason *string
}
