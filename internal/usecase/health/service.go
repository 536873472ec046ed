package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
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

// Report aggregates health check results.
type Report struct {
	Status    Status
	Checks    map[string]CheckResult
	IndexSize int
}

// Service coordinates health checks.
type Service struct {
	store StorePinger
	index IndexChecker
}

// New creates a Service. store can be nil when history persistence runs
// purely in memory.
func New(store StorePinger, index IndexChecker) *Service {
	return &Service{store: store, index: index}
}

// Check runs health checks against all components. An index that has not
// been built yet and an unreachable store both degrade the service rather
// than fail it, since searches keep working against whatever index is
// loaded.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.store != nil {
		if err := s.store.Ping(ctx); err != nil {
			checks["store"] = CheckError
		} else {
			checks["store"] = CheckOK
		}
	}

	size := 0
	if s.index != nil {
		if s.index.Ready() {
			checks["index"] = CheckOK
		} else {
			checks["index"] = CheckError
		}
		size = s.index.IndexSize()
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks, IndexSize: size}
}
