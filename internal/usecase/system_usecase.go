package usecase

import (
	"context"
	"time"

	"jobspace-backend/internal/domain"
	"jobspace-backend/pkg/apperror"
	"jobspace-backend/pkg/logger"
)

const healthMessage = "Serveur en cours d'exécution"

type systemUsecase struct {
	statsRepo domain.StatsRepository
	checkers  []domain.HealthChecker
	timeout   time.Duration
}

func NewSystemUsecase(statsRepo domain.StatsRepository, checkers ...domain.HealthChecker) domain.SystemUsecase {
	return &systemUsecase{
		statsRepo: statsRepo,
		checkers:  checkers,
		timeout:   2 * time.Second,
	}
}

// Health always answers OK while the process serves requests; dependency
// state is reported per check.
func (u *systemUsecase) Health(ctx context.Context) domain.HealthStatus {
	status := domain.HealthStatus{Status: "OK", Message: healthMessage}
	if len(u.checkers) == 0 {
		return status
	}

	status.Checks = make(map[string]string, len(u.checkers))
	for _, c := range u.checkers {
		checkCtx, cancel := context.WithTimeout(ctx, u.timeout)
		err := c.Ping(checkCtx)
		cancel()
		if err != nil {
			logger.Log.WarnContext(ctx, "health check failed", "check", c.Name(), "error", err)
			status.Checks[c.Name()] = "error"
			continue
		}
		status.Checks[c.Name()] = "ok"
	}
	return status
}

func (u *systemUsecase) Stats(ctx context.Context) (*domain.Stats, error) {
	stats, err := u.statsRepo.Counts(ctx)
	if err != nil {
		return nil, apperror.Internal(msgReadFailed, err)
	}
	return stats, nil
}
