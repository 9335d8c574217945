package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bigbestmart/bnbmart-backend/config"
	"github.com/bigbestmart/bnbmart-backend/internal/app/service"
	"github.com/bigbestmart/bnbmart-backend/pkg/logger"
)

// Scheduler runs the recurring background jobs: nightly bulk price
// recalculation and, when enabled, the daily bulk order report export.
type Scheduler struct {
	cron           *cron.Cron
	catalogService service.CatalogService
	reportService  service.ReportService
	reportConfig   config.ReportConfig
}

func NewScheduler(catalogService service.CatalogService, reportService service.ReportService, reportConfig config.ReportConfig) *Scheduler {
	return &Scheduler{
		cron:           cron.New(),
		catalogService: catalogService,
		reportService:  reportService,
		reportConfig:   reportConfig,
	}
}

func (s *Scheduler) Start() error {
	// Recompute bulk prices from discount percentages nightly, so tier
	// price edits made during the day take effect by morning.
	_, err := s.cron.AddFunc("0 1 * * *", func() {
		logger.Info("Starting scheduled bulk price refresh", nil)

		updated, err := s.catalogService.RefreshBulkPrices()
		if err != nil {
			logger.Error("Failed to refresh bulk prices from scheduler", err)
			return
		}

		logger.Info("Bulk price refresh completed", map[string]interface{}{
			"updated": updated,
		})
	})
	if err != nil {
		logger.Error("Failed to add cron job for bulk price refresh", err)
		return err
	}

	if s.reportConfig.Enabled && s.reportService != nil {
		_, err = s.cron.AddFunc(s.reportConfig.Schedule, func() {
			// Export yesterday's bulk orders; today's are still arriving.
			day := time.Now().AddDate(0, 0, -1)

			logger.Info("Starting scheduled bulk order report export", map[string]interface{}{
				"day": day.Format("2006-01-02"),
			})

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			url, err := s.reportService.ExportBulkOrders(ctx, day)
			if err != nil {
				logger.Error("Failed to export bulk order report from scheduler", err)
				return
			}
			if url == "" {
				logger.Info("No bulk orders to report", map[string]interface{}{
					"day": day.Format("2006-01-02"),
				})
				return
			}

			logger.Info("Bulk order report exported", map[string]interface{}{
				"url": url,
			})
		})
		if err != nil {
			logger.Error("Failed to add cron job for bulk order report", err)
			return err
		}
	}

	s.cron.Start()
	logger.Info("Scheduler started successfully", map[string]interface{}{
		"report_enabled": s.reportConfig.Enabled,
	})

	return nil
}

func (s *Scheduler) Stop() {
	logger.Info("Stopping scheduler...", nil)
	s.cron.Stop()
	logger.Info("Scheduler stopped", nil)
}
