package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/felixgeelhaar/pulsehr/internal/errors"
)

// Validate is shared by every request type. validator caches struct
// metadata, so one instance serves the whole process.
var Validate = validator.New()

const dateLayout = "2006-01-02"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return check(r, "Please fill in all fields")
}

// LoginResponse carries the bearer token and the signed-in employee.
type LoginResponse struct {
	Token    string   `json:"token"`
	Employee Employee `json:"employee"`
}

type RegisterRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	Role       Role   `json:"role" validate:"required,oneof=admin employee"`
	Department string `json:"department" validate:"required"`
	Position   string `json:"position" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
}

func (r *RegisterRequest) Validate() error {
	trim(&r.Name, &r.Email, &r.Department, &r.Position, &r.Phone)
	if r.Role == "" {
		r.Role = RoleEmployee
	}
	return check(r, "Please fill in all fields")
}

// EmployeeRequest creates or updates an employee. Password is required on
// create and optional on update, where an empty value keeps the old one.
type EmployeeRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password,omitempty"`
	Department string `json:"department" validate:"required"`
	Position   string `json:"position" validate:"required"`
	Phone      string `json:"phone,omitempty"`
	Role       Role   `json:"role,omitempty" validate:"omitempty,oneof=admin employee"`
}

func (r *EmployeeRequest) Validate(create bool) error {
	trim(&r.Name, &r.Email, &r.Department, &r.Position, &r.Phone)
	if r.Role == "" {
		r.Role = RoleEmployee
	}
	if err := check(r, "Please fill in all required fields"); err != nil {
		return err
	}
	if create && r.Password == "" {
		return errors.NewValidationError("Please fill in all required fields").
			WithSuggestion("Password: required for a new employee")
	}
	return nil
}

// ProfileUpdate is what a user may change about themselves.
type ProfileUpdate struct {
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Password   string `json:"password,omitempty"`
}

func (r *ProfileUpdate) Validate() error {
	trim(&r.Name, &r.Phone, &r.Department, &r.Position)
	return check(r, "Name is required")
}

// MarkAttendanceRequest is an admin marking someone else's attendance.
type MarkAttendanceRequest struct {
	EmployeeID string           `json:"employeeId" validate:"required"`
	Date       string           `json:"date" validate:"required,datetime=2006-01-02"`
	Status     AttendanceStatus `json:"status" validate:"required,oneof=present absent late half-day"`
	CheckIn    string           `json:"checkIn" validate:"omitempty,datetime=15:04"`
	CheckOut   string           `json:"checkOut" validate:"omitempty,datetime=15:04"`
	Notes      string           `json:"notes"`
}

// Validate rejects marking selfID's own attendance before any field checks.
func (r *MarkAttendanceRequest) Validate(selfID string) error {
	trim(&r.EmployeeID, &r.Date, &r.CheckIn, &r.CheckOut, &r.Notes)
	if r.EmployeeID != "" && r.EmployeeID == selfID {
		return errors.New(errors.ErrCodeSelfAttendance, "You cannot mark your own attendance")
	}
	if r.Status == "" {
		r.Status = AttendancePresent
	}
	return check(r, "Please fill in all required fields")
}

// SelfAttendanceResponse is the reply to a check-in or check-out.
type SelfAttendanceResponse struct {
	Message    string            `json:"message"`
	Attendance *AttendanceRecord `json:"attendance,omitempty"`
}

type LeaveRequest struct {
	EmployeeID string    `json:"employeeId" validate:"required"`
	LeaveType  LeaveType `json:"leaveType" validate:"required,oneof=sick casual vacation"`
	StartDate  string    `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate    string    `json:"endDate" validate:"required,datetime=2006-01-02"`
	Reason     string    `json:"reason"`
}

func (r *LeaveRequest) Validate() error {
	trim(&r.StartDate, &r.EndDate, &r.Reason)
	if r.LeaveType == "" {
		r.LeaveType = LeaveCasual
	}
	if r.Reason == "" {
		return errors.NewValidationError("Please provide a reason for leave")
	}
	if err := check(r, "Please fill in all required fields"); err != nil {
		return err
	}
	start, _ := time.Parse(dateLayout, r.StartDate)
	end, _ := time.Parse(dateLayout, r.EndDate)
	if end.Before(start) {
		return errors.New(errors.ErrCodeDateRange, "End date cannot be before start date")
	}
	return nil
}

type LeaveStatusUpdate struct {
	Status LeaveStatus `json:"status" validate:"required,oneof=approved rejected"`
}

func (r *LeaveStatusUpdate) Validate() error {
	return check(r, "Status must be approved or rejected")
}

type FeedbackRequest struct {
	Type        FeedbackType `json:"type" validate:"required,oneof=feedback complaint suggestion"`
	Subject     string       `json:"subject" validate:"required"`
	Message     string       `json:"message" validate:"required"`
	IsAnonymous bool         `json:"isAnonymous"`
}

func (r *FeedbackRequest) Validate() error {
	trim(&r.Subject, &r.Message)
	if r.Type == "" {
		r.Type = FeedbackGeneral
	}
	return check(r, "Please fill in all required fields")
}

// PendingCount is the body of GET /feedback/pending-count.
type PendingCount struct {
	Count int `json:"count"`
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

// check runs struct validation and folds failures into one validation
// error. message is what the user sees; per-field detail goes into the
// suggestions.
func check(v any, message string) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(errors.ErrCodeValidationFailed, message, err)
	}
	pe := errors.NewValidationError(message)
	for _, fe := range verrs {
		pe.WithSuggestion(describe(fe))
	}
	return pe
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s: required", fe.Field())
	case "email":
		return fmt.Sprintf("%s: must be a valid email address", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s: must be one of %s", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s: must match %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag())
	}
}
