package user

import (
	"context"
	"project-pilot/internal/logger"
	"time"

	"go.uber.org/zap"
)

// StartTokenCleanupJob periodically clears expired verification and reset
// tokens until ctx is cancelled.
func (s *Service) StartTokenCleanupJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Token cleanup job started",
		zap.Duration("interval", interval),
	)

	s.cleanupExpiredTokens(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Token cleanup job stopped")
			return
		case <-ticker.C:
			s.cleanupExpiredTokens(ctx)
		}
	}
}

func (s *Service) cleanupExpiredTokens(ctx context.Context) {
	cleared, err := s.userRepo.ClearExpiredTokens(ctx, s.codec.Now())
	if err != nil {
		logger.Error("Failed to clear expired tokens", zap.Error(err))
		return
	}

	logger.Debug("Expired tokens cleared",
		zap.Int64("users_updated", cleared),
	)
}
