package domain

import (
	"context"
	"io"
)

type Stats struct {
	Candidates        int                     `json:"candidats"`
	Offers            int                     `json:"offres"`
	Recruiters        int                     `json:"recruteurs"`
	CandidateByStatus map[CandidateStatus]int `json:"candidatsParStatut"`
}

type HealthStatus struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// StatsRepository computes the dashboard counters in the storage engine.
type StatsRepository interface {
	Counts(ctx context.Context) (*Stats, error)
}

// HealthChecker is a dependency probed by /health.
type HealthChecker interface {
	Name() string
	Ping(ctx context.Context) error
}

type SystemUsecase interface {
	Health(ctx context.Context) HealthStatus
	Stats(ctx context.Context) (*Stats, error)
}

type ExportUsecase interface {
	ExportCandidates(ctx context.Context, filter CandidateFilter, w io.Writer) error
}
