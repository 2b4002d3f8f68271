// Package health runs the local and remote checks behind 'pulsehr doctor'.
//
// A Checker verifies one thing (the config file, the saved token, the HR
// API) and reports a Result. A Manager runs checkers in parallel, each with
// its own timeout, and returns a Report in registration order.
package health

import (
	"context"
	"time"
)

// Checker verifies one dependency. Check must respect ctx.
type Checker interface {
	Name() string
	Check(ctx context.Context) *Result
}

type Status string

const (
	StatusHealthy Status = "healthy"

	// StatusDegraded means pulsehr works with reduced function, for example
	// without a saved session.
	StatusDegraded Status = "degraded"

	StatusUnhealthy Status = "unhealthy"
)

func (s Status) String() string {
	return string(s)
}

// Result is the outcome of one check.
type Result struct {
	Status  Status         `json:"status" yaml:"status"`
	Message string         `json:"message" yaml:"message"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	Latency time.Duration  `json:"latency" yaml:"latency"`
}

func NewResult(status Status, message string) *Result {
	return &Result{
		Status:  status,
		Message: message,
		Details: make(map[string]any),
	}
}

// WithDetail adds a detail and returns r for chaining.
func (r *Result) WithDetail(key string, value any) *Result {
	r.Details[key] = value
	return r
}

func (r *Result) WithLatency(latency time.Duration) *Result {
	r.Latency = latency
	return r
}

func Healthy(message string) *Result {
	return NewResult(StatusHealthy, message)
}

func Degraded(message string) *Result {
	return NewResult(StatusDegraded, message)
}

func Unhealthy(message string) *Result {
	return NewResult(StatusUnhealthy, message)
}
