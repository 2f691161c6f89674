package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"fbw-backend/internal/pipeline"
	"fbw-backend/internal/services"
)

// GenerationJob triggers the daily official prediction run so that a
// slate exists before the admin sits down to review and publish it.
type GenerationJob struct {
	predictionService *services.PredictionService
	runAtHour         int
	logger            *logrus.Logger
	stopChan          chan struct{}
}

// NewGenerationJob creates a new daily generation job. runAtHour is the
// UTC hour at which the run fires.
func NewGenerationJob(predictionService *services.PredictionService, runAtHour int, logger *logrus.Logger) *GenerationJob {
	return &GenerationJob{
		predictionService: predictionService,
		runAtHour:         runAtHour,
		logger:            logger,
		stopChan:          make(chan struct{}),
	}
}

// Start begins the daily generation loop
func (gj *GenerationJob) Start() {
	gj.logger.Infof("[GenerationJob] starting daily generation job (run hour: %02d:00 UTC)", gj.runAtHour)

	for {
		wait := gj.untilNextRun(time.Now().UTC())
		select {
		case <-time.After(wait):
			gj.runToday()
		case <-gj.stopChan:
			gj.logger.Info("[GenerationJob] stopping daily generation job")
			return
		}
	}
}

// Stop stops the daily generation loop
func (gj *GenerationJob) Stop() {
	close(gj.stopChan)
}

func (gj *GenerationJob) untilNextRun(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), gj.runAtHour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}

func (gj *GenerationJob) runToday() {
	ctx := context.Background()
	day := time.Now().UTC().Format("2006-01-02")

	summary, err := gj.predictionService.RunOfficial(ctx, day)
	if err != nil {
		if errors.Is(err, services.ErrRunInProgress) {
			gj.logger.Warnf("[GenerationJob] run for %s already in progress, skipping", day)
			return
		}
		var vErr *pipeline.ValidationError
		if errors.As(err, &vErr) {
			gj.logger.Warnf("[GenerationJob] run for %s rejected: %v", day, vErr)
			return
		}
		gj.logger.Errorf("[GenerationJob] run for %s failed: %v", day, err)
		return
	}

	gj.logger.Infof("[GenerationJob] generated %d predictions for %s", summary.Total, day)
	if summary.Warning != "" {
		gj.logger.Warnf("[GenerationJob] %s", summary.Warning)
	}
}
