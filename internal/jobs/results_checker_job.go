package jobs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"fbw-backend/internal/services"
)

// ResultsChecker periodically grades pending prediction records against
// finished fixture results.
type ResultsChecker struct {
	settlementService *services.SettlementService
	interval          time.Duration
	logger            *logrus.Logger
	stopChan          chan struct{}
}

// NewResultsChecker creates a new results checker job
func NewResultsChecker(settlementService *services.SettlementService, interval time.Duration, logger *logrus.Logger) *ResultsChecker {
	return &ResultsChecker{
		settlementService: settlementService,
		interval:          interval,
		logger:            logger,
		stopChan:          make(chan struct{}),
	}
}

// Start begins the settlement loop
func (rc *ResultsChecker) Start() {
	rc.logger.Infof("[ResultsChecker] starting settlement job (interval: %v)", rc.interval)

	ticker := time.NewTicker(rc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rc.settlePendingDays()
		case <-rc.stopChan:
			rc.logger.Info("[ResultsChecker] stopping settlement job")
			return
		}
	}
}

// Stop stops the settlement loop
func (rc *ResultsChecker) Stop() {
	close(rc.stopChan)
}

// settlePendingDays settles every day that still has pending records
func (rc *ResultsChecker) settlePendingDays() {
	ctx := context.Background()

	days, err := rc.settlementService.DaysWithPending(7)
	if err != nil {
		rc.logger.Errorf("[ResultsChecker] error finding pending days: %v", err)
		return
	}

	for _, day := range days {
		settled, err := rc.settlementService.SettleDay(ctx, day)
		if err != nil {
			rc.logger.Errorf("[ResultsChecker] error settling %s: %v", day, err)
			continue
		}
		if settled > 0 {
			rc.logger.Infof("[ResultsChecker] settled %d records for %s", settled, day)
		}
	}
}
