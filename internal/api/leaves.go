package api

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) ListLeaves(ctx context.Context) ([]Leave, error) {
	var out []Leave
	if err := c.get(ctx, "/leaves", "/leaves", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) EmployeeLeaves(ctx context.Context, employeeID string) ([]Leave, error) {
	var out []Leave
	path := "/leaves/employee/" + url.PathEscape(employeeID)
	if err := c.get(ctx, "/leaves/employee/:id", path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ApplyLeave(ctx context.Context, req LeaveRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/leaves", "/leaves", req, nil)
}

// SetLeaveStatus approves or rejects a leave request.
func (c *Client) SetLeaveStatus(ctx context.Context, id string, status LeaveStatus) error {
	req := LeaveStatusUpdate{Status: status}
	if err := req.Validate(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "/leaves/:id", "/leaves/"+url.PathEscape(id), req, nil)
}
