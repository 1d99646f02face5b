package dashboard

// ========== WEEKLY ATTENDANCE ==========

// WeeklyAttendanceResponse is the combined response for the weekly dashboard endpoint
type WeeklyAttendanceResponse struct {
	From             string                         `json:"from"` // YYYY-MM-DD
	To               string                         `json:"to"`   // YYYY-MM-DD
	TotalEmployees   int64                          `json:"total_employees"`
	Days             []DailyAttendanceResponse      `json:"days"`
	Departments      []DepartmentAttendanceResponse `json:"departments"`
	PendingApprovals PendingApprovalsResponse       `json:"pending_approvals"`
}

// DailyAttendanceResponse represents one bar of the weekly chart
type DailyAttendanceResponse struct {
	Date          string  `json:"date"`
	Weekday       string  `json:"weekday"` // Mon, Tue, ...
	Present       int64   `json:"present"`
	Late          int64   `json:"late"`
	Absent        int64   `json:"absent"`
	OpenSessions  int64   `json:"open_sessions"`
	OvertimeHours float64 `json:"overtime_hours"`
}

// DepartmentAttendanceResponse represents attendance rate by department
type DepartmentAttendanceResponse struct {
	Department     string  `json:"department"`
	Employees      int64   `json:"employees"`
	PresentDays    int64   `json:"present_days"`
	LateDays       int64   `json:"late_days"`
	AttendanceRate float64 `json:"attendance_rate"` // percent of employee-days present
	OvertimeHours  float64 `json:"overtime_hours"`
}

// PendingApprovalsResponse counts requests awaiting a manager
type PendingApprovalsResponse struct {
	LeaveRequests int64 `json:"leave_requests"`
	ShiftSwaps    int64 `json:"shift_swaps"`
}
