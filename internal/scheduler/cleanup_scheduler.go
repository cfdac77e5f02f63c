package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/okim/optionlogic-backend/config"
	"github.com/okim/optionlogic-backend/internal/app/repository"
	"github.com/okim/optionlogic-backend/pkg/logger"
)

// CleanupScheduler permanently removes option sets that stayed in the trash
// past the retention window. Soft deletes keep sets restorable until then.
type CleanupScheduler struct {
	cron    *cron.Cron
	setRepo repository.OptionSetRepository
	cfg     *config.CleanupConfig
}

func NewCleanupScheduler(setRepo repository.OptionSetRepository, cfg *config.CleanupConfig) *CleanupScheduler {
	return &CleanupScheduler{
		cron:    cron.New(),
		setRepo: setRepo,
		cfg:     cfg,
	}
}

func (s *CleanupScheduler) Start() error {
	_, err := s.cron.AddFunc(s.cfg.Schedule, s.runOnce)
	if err != nil {
		logger.Error("Failed to register trash purge job", err, map[string]interface{}{
			"schedule": s.cfg.Schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Trash purge scheduler started", map[string]interface{}{
		"schedule":       s.cfg.Schedule,
		"retention_days": s.cfg.RetentionDays,
	})
	return nil
}

func (s *CleanupScheduler) runOnce() {
	cutoff := time.Now().AddDate(0, 0, -s.cfg.RetentionDays)

	purged, err := s.setRepo.PurgeDeletedBefore(cutoff)
	if err != nil {
		logger.Error("Trash purge failed", err, map[string]interface{}{
			"cutoff": cutoff.Format(time.RFC3339),
		})
		return
	}

	if purged > 0 {
		logger.Info("Purged trashed option sets", map[string]interface{}{
			"purged": purged,
			"cutoff": cutoff.Format(time.RFC3339),
		})
	}
}

func (s *CleanupScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Trash purge scheduler stopped", nil)
}
