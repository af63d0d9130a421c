package worker

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Janitor периодически удаляет завершенные задачи старше окна хранения.
// Единственная фоновая работа в системе; на обработку запросов не влияет.
type Janitor struct {
	pool          *pgxpool.Pool
	logger        *zap.Logger
	retentionDays int
	interval      time.Duration
	wg            sync.WaitGroup
	stop          chan struct{}
}

func NewJanitor(pool *pgxpool.Pool, logger *zap.Logger, retentionDays int) *Janitor {
	return &Janitor{
		pool:          pool,
		logger:        logger,
		retentionDays: retentionDays,
		interval:      time.Hour,
		stop:          make(chan struct{}),
	}
}

func (j *Janitor) Start(ctx context.Context) {
	if j.retentionDays <= 0 {
		return
	}
	j.logger.Info("Starting retention janitor", zap.Int("retention_days", j.retentionDays))

	j.wg.Add(1)
	go j.run(ctx)
}

func (j *Janitor) Stop() {
	close(j.stop)
	j.wg.Wait()
}

func (j *Janitor) run(ctx context.Context) {
	defer j.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.purge(ctx); err != nil {
				j.logger.Error("janitor purge failed", zap.Error(err))
			}
		}
	}
}

func (j *Janitor) purge(ctx context.Context) error {
	cmd, err := j.pool.Exec(ctx, `
		DELETE FROM tasks
		WHERE status = 'completed' AND updated_at < now() - make_interval(days => $1)
	`, j.retentionDays)
	if err != nil {
		return err
	}
	if n := cmd.RowsAffected(); n > 0 {
		j.logger.Info("Purged completed tasks", zap.Int64("count", n))
	}
	return nil
}
