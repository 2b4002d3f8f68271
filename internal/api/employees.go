package api

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

func employeePath(id string) string {
	return "/employees/" + url.PathEscape(id)
}

func (c *Client) ListEmployees(ctx context.Context) ([]Employee, error) {
	var out []Employee
	if err := c.get(ctx, "/employees", "/employees", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	if err := c.get(ctx, "/employees/:id", employeePath(id), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) CreateEmployee(ctx context.Context, req EmployeeRequest) error {
	if err := req.Validate(true); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/employees", "/employees", req, nil)
}

func (c *Client) UpdateEmployee(ctx context.Context, id string, req EmployeeRequest) error {
	if err := req.Validate(false); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "/employees/:id", employeePath(id), req, nil)
}

func (c *Client) DeleteEmployee(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/employees/:id", employeePath(id), nil, nil)
}

// UpdateProfile saves the signed-in user's own record.
func (c *Client) UpdateProfile(ctx context.Context, id string, req ProfileUpdate) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "/employees/:id", employeePath(id), req, nil)
}

// EmployeeFilter narrows a list of employees on the client.
type EmployeeFilter struct {
	// Search matches name, email or position, case-insensitively.
	Search string
	// Department must match exactly when set.
	Department string
}

func (f EmployeeFilter) Match(e Employee) bool {
	if f.Department != "" && e.Department != f.Department {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Name), q) ||
		strings.Contains(strings.ToLower(e.Email), q) ||
		strings.Contains(strings.ToLower(e.Position), q)
}

func (f EmployeeFilter) Apply(list []Employee) []Employee {
	out := make([]Employee, 0, len(list))
	for _, e := range list {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// Departments returns the distinct non-empty departments in list, sorted.
func Departments(list []Employee) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range list {
		if e.Department == "" {
			continue
		}
		if _, ok := seen[e.Department]; ok {
			continue
		}
		seen[e.Department] = struct{}{}
		out = append(out, e.Department)
	}
	sort.Strings(out)
	return out
}
