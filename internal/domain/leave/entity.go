package leave

import "time"

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending   LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved  LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected  LeaveRequestStatus = "rejected"
	LeaveRequestStatusCancelled LeaveRequestStatus = "cancelled"
)

type LeaveType string

const (
	LeaveTypeAnnual    LeaveType = "annual"
	LeaveTypeSick      LeaveType = "sick"
	LeaveTypeEmergency LeaveType = "emergency"
	LeaveTypeUnpaid    LeaveType = "unpaid"
	LeaveTypeParental  LeaveType = "parental"
)

var validLeaveTypes = []string{
	string(LeaveTypeAnnual),
	string(LeaveTypeSick),
	string(LeaveTypeEmergency),
	string(LeaveTypeUnpaid),
	string(LeaveTypeParental),
}

var validStatuses = []string{
	string(LeaveRequestStatusPending),
	string(LeaveRequestStatusApproved),
	string(LeaveRequestStatusRejected),
	string(LeaveRequestStatusCancelled),
}

// DefaultReason is stored when a request is submitted without one.
const DefaultReason = "No reason provided"

// LeaveRequest entity
type LeaveRequest struct {
	ID         string
	EmployeeID string
	Type       LeaveType
	FromDate   time.Time
	ToDate     time.Time
	Days       int
	Reason     string

	Status          LeaveRequestStatus
	DecidedBy       *string
	DecidedAt       *time.Time
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	EmployeeName *string
}

// IsPending reports whether the request still awaits a decision.
func (r LeaveRequest) IsPending() bool {
	return r.Status == LeaveRequestStatusPending
}

// Overlaps reports whether the request covers any day in [from, to].
func (r LeaveRequest) Overlaps(from, to time.Time) bool {
	return !r.ToDate.Before(from) && !r.FromDate.After(to)
}

// CountDays returns the inclusive number of calendar days from from to to, at least one.
func CountDays(from, to time.Time) int {
	days := int(to.Sub(from).Hours()/24+0.5) + 1
	if days < 1 {
		return 1
	}
	return days
}

// Decision moves a pending request to its final status. Only pending rows are updated.
type Decision struct {
	ID              string
	Status          LeaveRequestStatus
	DecidedBy       string
	DecidedAt       time.Time
	RejectionReason *string
}
