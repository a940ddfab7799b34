package notification

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CleanupService purges read notifications past the retention window.
type CleanupService struct {
	repo      Cleaner
	retention time.Duration
	interval  time.Duration
	logger    *zap.Logger
}

func NewCleanupService(repo Cleaner, retentionDays int, interval time.Duration, logger *zap.Logger) *CleanupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CleanupService{
		repo:      repo,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		interval:  interval,
		logger:    logger,
	}
}

func (s *CleanupService) Run(ctx context.Context) (int64, error) {
	start := time.Now()

	deleted, err := s.repo.DeleteReadOlderThan(ctx, s.retention)
	if err != nil {
		s.logger.Error("notification cleanup failed", zap.Error(err))
		return 0, err
	}

	s.logger.Info("notification cleanup completed",
		zap.Int64("deleted", deleted),
		zap.Duration("took", time.Since(start)),
	)
	return deleted, nil
}

// Schedule runs cleanup every interval until ctx is done or stop is called.
// stop blocks until the goroutine has exited and is safe to call twice.
func (s *CleanupService) Schedule(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				_, _ = s.Run(ctx)
			case <-ctx.Done():
				s.logger.Info("scheduled notification cleanup stopped")
				return
			}
		}
	}()

	s.logger.Info("scheduled notification cleanup started", zap.Duration("interval", s.interval))

	var once sync.Once
	return func() {
		once.Do(cancel)
		<-done
	}
}
