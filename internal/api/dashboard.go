package api

import "context"

// Dashboard returns the organisation-wide summary. Admin only.
func (c *Client) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var s DashboardStats
	if err := c.get(ctx, "/dashboard", "/dashboard", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// EmployeeDashboard builds a personal summary from the employee's own
// attendance and leave history. A failed half leaves its counts at zero;
// the first error is returned alongside whatever was computed.
func (c *Client) EmployeeDashboard(ctx context.Context, employeeID string) (EmployeeStats, error) {
	attendance, attErr := c.EmployeeAttendance(ctx, employeeID)
	leaves, leaveErr := c.EmployeeLeaves(ctx, employeeID)

	stats := SummarizeEmployee(attendance, leaves)
	if attErr != nil {
		return stats, attErr
	}
	return stats, leaveErr
}
