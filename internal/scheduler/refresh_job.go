package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Refresher runs one enrichment cycle over the dataset.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshJob periodically rebuilds the schedule snapshot and re-annotates
// the dataset.
type RefreshJob struct {
	log     zerolog.Logger
	gateway Refresher
	timeout time.Duration
}

// NewRefreshJob creates the periodic refresh job. timeout bounds one cycle;
// zero means no bound.
func NewRefreshJob(log zerolog.Logger, gateway Refresher, timeout time.Duration) *RefreshJob {
	return &RefreshJob{
		log:     log.With().Str("job", "refresh").Logger(),
		gateway: gateway,
		timeout: timeout,
	}
}

// Name returns the job name for scheduler logging.
func (j *RefreshJob) Name() string {
	return "marketdata_refresh"
}

// Run executes one refresh cycle under the scheduler's context, bounded by
// the configured timeout.
func (j *RefreshJob) Run(ctx context.Context) error {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	started := time.Now()
	if err := j.gateway.Refresh(ctx); err != nil {
		return err
	}

	j.log.Info().Dur("elapsed", time.Since(started)).Msg("Refresh cycle finished")
	return nil
}
