// Package health aggregates readiness of the service's dependencies: the
// Redis store behind documents and vectors, and the embedding and generation
// providers behind the RAG pipeline.
package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates at least one component is failing.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results by component name.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service runs the component health checks.
type Service struct {
	db        DBPinger
	providers map[string]ProviderChecker
}

// New creates a health service. providers maps a component name ("embedding",
// "generation") to its checker; nil entries and a nil map are allowed.
func New(db DBPinger, providers map[string]ProviderChecker) *Service {
	return &Service{db: db, providers: providers}
}

// Check pings the database and every configured provider. Any failing
// component degrades the overall status.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.providers)+1)

	checks["database"] = outcome(s.db.Ping(ctx))

	for name, p := range s.providers {
		if p == nil {
			continue
		}
		checks[name] = outcome(p.HealthCheck(ctx))
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func outcome(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
