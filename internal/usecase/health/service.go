package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded means reads work but new strings are rejected.
	Degraded Status = "degraded"
	// Unhealthy indicates the store is unavailable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status     Status
	Checks     map[string]CheckResult
	InstanceID string
	Records    int
	Uptime     time.Duration
}

// Service coordinates health checks.
type Service struct {
	store      StorePinger
	capacity   int
	instanceID string
	started    time.Time
	now        func() time.Time
}

// New creates a Service for the given store and process instance.
func New(store StorePinger, instanceID string) *Service {
	return &Service{store: store, instanceID: instanceID, started: time.Now(), now: time.Now}
}

// WithCapacity adds a "capacity" check that fails once the store holds n records.
// Zero or negative disables it.
func (s *Service) WithCapacity(n int) *Service {
	s.capacity = n
	return s
}

// Check pings the store and, when a capacity is set, compares the record count to it.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 2)
	status := Healthy
	records := 0

	if err := s.store.Ping(ctx); err != nil {
		checks["store"] = CheckError
		status = Unhealthy
	} else {
		checks["store"] = CheckOK
		records = s.store.Count(ctx)
		if s.capacity > 0 {
			checks["capacity"] = CheckOK
			if records >= s.capacity {
				checks["capacity"] = CheckError
				status = Degraded
			}
		}
	}

	return Report{
		Status:     status,
		Checks:     checks,
		InstanceID: s.instanceID,
		Records:    records,
		Uptime:     s.now().Sub(s.started),
	}
}
