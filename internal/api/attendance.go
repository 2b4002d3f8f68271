package api

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) ListAttendance(ctx context.Context) ([]AttendanceRecord, error) {
	var out []AttendanceRecord
	if err := c.get(ctx, "/attendance", "/attendance", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) EmployeeAttendance(ctx context.Context, employeeID string) ([]AttendanceRecord, error) {
	var out []AttendanceRecord
	path := "/attendance/employee/" + url.PathEscape(employeeID)
	if err := c.get(ctx, "/attendance/employee/:id", path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TodayAttendance returns the caller's record for today, or nil if none.
func (c *Client) TodayAttendance(ctx context.Context) (*AttendanceRecord, error) {
	var rec *AttendanceRecord
	if err := c.get(ctx, "/attendance/today", "/attendance/today", &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// MarkAttendance records attendance for another employee. selfID is the
// signed-in admin, who may not mark themselves.
func (c *Client) MarkAttendance(ctx context.Context, selfID string, req MarkAttendanceRequest) error {
	if err := req.Validate(selfID); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/attendance", "/attendance", req, nil)
}

// SelfAttendance checks the caller in, or out if already checked in.
func (c *Client) SelfAttendance(ctx context.Context) (*SelfAttendanceResponse, error) {
	var resp SelfAttendanceResponse
	if err := c.do(ctx, http.MethodPost, "/attendance/self", "/attendance/self", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// NextSelfAction names what SelfAttendance would do given today's record.
// It returns "" once the day is complete.
func NextSelfAction(today *AttendanceRecord) string {
	switch {
	case today == nil:
		return "Check In"
	case today.CheckOut == "":
		return "Check Out"
	default:
		return ""
	}
}
