package strindex

import (
	"context"

	healthuc "github.com/kailas-cloud/strindex/internal/usecase/health"
)

// HealthStatus is the result of Client.Health.
type HealthStatus struct {
	Status  string            // "ok", "degraded" (full) or "error"
	Checks  map[string]string // "store", and "capacity" when WithMaxRecords is set
	Records int
}

// Health reports whether the store answers and whether it has room for more strings.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:  string(report.Status),
		Checks:  checks,
		Records: report.Records,
	}
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
