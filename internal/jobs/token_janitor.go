package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// TokenRepository очистка просроченных токенов подтверждения
type TokenRepository interface {
	ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

// Metrics метрики фоновых задач
type Metrics interface {
	AddExpiredTokens(n int64)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TokenJanitor периодически гасит просроченные токены подтверждения.
// Сами токены и так не принимаются после token_expiry, задача только убирает их из таблицы.
type TokenJanitor struct {
	repo    TokenRepository
	metrics Metrics
	logger  Logger
	now     func() time.Time
	timeout time.Duration

	cron *cron.Cron
}

// NewTokenJanitor создает задачу с расписанием в формате cron ("*/15 * * * *")
func NewTokenJanitor(repo TokenRepository, metrics Metrics, schedule string, logger Logger) (*TokenJanitor, error) {
	j := &TokenJanitor{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
		timeout: 30 * time.Second,
		cron:    cron.New(),
	}

	if _, err := j.cron.AddFunc(schedule, func() { _, _ = j.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("jobs: invalid token janitor schedule %q: %w", schedule, err)
	}

	return j, nil
}

// Start запускает планировщик
func (j *TokenJanitor) Start() {
	j.cron.Start()
	j.logger.Info("TokenJanitor: scheduler started")
}

// Stop останавливает планировщик и дожидается текущего запуска
func (j *TokenJanitor) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("TokenJanitor: scheduler stopped")
}

// RunOnce выполняет одну очистку
func (j *TokenJanitor) RunOnce(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	cleared, err := j.repo.ClearExpiredTokens(ctx, j.now())
	if err != nil {
		j.logger.Error("TokenJanitor: failed to clear expired tokens: %v", err)
		return 0, err
	}

	if cleared > 0 {
		j.logger.Info("TokenJanitor: cleared %d expired tokens", cleared)
		j.metrics.AddExpiredTokens(cleared)
	}

	return cleared, nil
}
