package api

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Role is an account's access level.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// IsAdmin reports whether r is the admin role.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// Employee is an employee record. The API uses the same shape for the
// profile of the signed-in user.
type Employee struct {
	ID         string `json:"_id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Email      string `json:"email" yaml:"email"`
	Role       Role   `json:"role" yaml:"role"`
	Department string `json:"department,omitempty" yaml:"department,omitempty"`
	Position   string `json:"position,omitempty" yaml:"position,omitempty"`
	Phone      string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Status     string `json:"status,omitempty" yaml:"status,omitempty"`
	JoinDate   string `json:"joinDate,omitempty" yaml:"join_date,omitempty"`
}

// UserProfile is the resolved identity of the signed-in user.
type UserProfile = Employee

// Initials returns up to two upper-case initials from the name.
func (e Employee) Initials() string {
	var initials []rune
	for _, part := range strings.Fields(e.Name) {
		initials = append(initials, []rune(part)[0])
		if len(initials) == 2 {
			break
		}
	}
	if len(initials) == 0 {
		return "?"
	}
	return strings.ToUpper(string(initials))
}

// DisplayStatus returns the status, defaulting to "active".
func (e Employee) DisplayStatus() string {
	if e.Status == "" {
		return "active"
	}
	return e.Status
}

// EmployeeRef is the employeeId field of attendance, leave and feedback
// records. The API sends either a bare id or a populated employee object.
type EmployeeRef struct {
	ID         string `json:"_id" yaml:"id"`
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
	Email      string `json:"email,omitempty" yaml:"email,omitempty"`
	Department string `json:"department,omitempty" yaml:"department,omitempty"`
}

func (r *EmployeeRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = EmployeeRef{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = EmployeeRef{ID: id}
		return nil
	}
	type plain EmployeeRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = EmployeeRef(p)
	return nil
}

// DisplayName returns the populated name or "N/A".
func (r EmployeeRef) DisplayName() string {
	if r.Name == "" {
		return "N/A"
	}
	return r.Name
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceHalfDay AttendanceStatus = "half-day"
)

// AttendanceStatuses lists the values accepted when marking attendance.
var AttendanceStatuses = []AttendanceStatus{AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceHalfDay}

type AttendanceRecord struct {
	ID       string           `json:"_id" yaml:"id"`
	Employee EmployeeRef      `json:"employeeId" yaml:"employee"`
	Date     string           `json:"date" yaml:"date"`
	Status   AttendanceStatus `json:"status" yaml:"status"`
	CheckIn  string           `json:"checkIn,omitempty" yaml:"check_in,omitempty"`
	CheckOut string           `json:"checkOut,omitempty" yaml:"check_out,omitempty"`
	Notes    string           `json:"notes,omitempty" yaml:"notes,omitempty"`
}

type LeaveType string

const (
	LeaveSick     LeaveType = "sick"
	LeaveCasual   LeaveType = "casual"
	LeaveVacation LeaveType = "vacation"
)

var LeaveTypes = []LeaveType{LeaveSick, LeaveCasual, LeaveVacation}

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

type Leave struct {
	ID        string      `json:"_id" yaml:"id"`
	Employee  EmployeeRef `json:"employeeId" yaml:"employee"`
	LeaveType LeaveType   `json:"leaveType" yaml:"leave_type"`
	StartDate string      `json:"startDate" yaml:"start_date"`
	EndDate   string      `json:"endDate" yaml:"end_date"`
	Reason    string      `json:"reason" yaml:"reason"`
	Status    LeaveStatus `json:"status" yaml:"status"`
}

// CountLeaves returns how many leaves have the given status.
func CountLeaves(leaves []Leave, status LeaveStatus) int {
	n := 0
	for _, l := range leaves {
		if l.Status == status {
			n++
		}
	}
	return n
}

type FeedbackType string

const (
	FeedbackGeneral    FeedbackType = "feedback"
	FeedbackComplaint  FeedbackType = "complaint"
	FeedbackSuggestion FeedbackType = "suggestion"
)

var FeedbackTypes = []FeedbackType{FeedbackGeneral, FeedbackComplaint, FeedbackSuggestion}

type Feedback struct {
	ID          string       `json:"_id" yaml:"id"`
	Employee    EmployeeRef  `json:"employeeId" yaml:"employee"`
	Type        FeedbackType `json:"type" yaml:"type"`
	Subject     string       `json:"subject" yaml:"subject"`
	Message     string       `json:"message" yaml:"message"`
	IsAnonymous bool         `json:"isAnonymous" yaml:"is_anonymous"`
	Status      string       `json:"status" yaml:"status"`
	CreatedAt   string       `json:"createdAt" yaml:"created_at"`
}

// Author returns the name to show for fb, hiding anonymous submitters.
func (fb Feedback) Author() string {
	if fb.IsAnonymous {
		return "Anonymous"
	}
	return fb.Employee.DisplayName()
}

type DepartmentCount struct {
	Department string `json:"_id" yaml:"department"`
	Count      int    `json:"count" yaml:"count"`
}

type LeaveStats struct {
	Pending  int `json:"pending" yaml:"pending"`
	Approved int `json:"approved" yaml:"approved"`
}

// DashboardStats is the admin dashboard summary.
type DashboardStats struct {
	TotalEmployees        int               `json:"totalEmployees" yaml:"total_employees"`
	PresentToday          int               `json:"presentToday" yaml:"present_today"`
	LeaveStats            LeaveStats        `json:"leaveStats" yaml:"leave_stats"`
	EmployeesByDepartment []DepartmentCount `json:"employeesByDepartment" yaml:"employees_by_department"`
}

// EmployeeStats is the personal dashboard summary, computed client-side.
type EmployeeStats struct {
	PresentDays      int                `json:"presentDays" yaml:"present_days"`
	PendingLeaves    int                `json:"pendingLeaves" yaml:"pending_leaves"`
	ApprovedLeaves   int                `json:"approvedLeaves" yaml:"approved_leaves"`
	RecentAttendance []AttendanceRecord `json:"recentAttendance" yaml:"recent_attendance"`
}

// SummarizeEmployee builds EmployeeStats from a person's own records.
// RecentAttendance keeps the first five records in API order.
func SummarizeEmployee(attendance []AttendanceRecord, leaves []Leave) EmployeeStats {
	s := EmployeeStats{
		PendingLeaves:  CountLeaves(leaves, LeavePending),
		ApprovedLeaves: CountLeaves(leaves, LeaveApproved),
	}
	for _, a := range attendance {
		if a.Status == AttendancePresent {
			s.PresentDays++
		}
	}
	n := min(len(attendance), 5)
	s.RecentAttendance = append([]AttendanceRecord(nil), attendance[:n]...)
	return s
}

// FormatDate renders an API timestamp as YYYY-MM-DD. Values that do not
// parse are returned unchanged.
func FormatDate(s string) string {
	if s == "" {
		return "-"
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

// OrDash returns s, or "-" when it is empty.
func OrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
