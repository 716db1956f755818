package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"esports-matches-service/internal/aggregator"
	"esports-matches-service/internal/domain"
	"esports-matches-service/internal/logging"
	"esports-matches-service/internal/metrics"
	"esports-matches-service/internal/store"
)

const (
	defaultInterval = 2 * time.Minute
	// Bound on one full refresh pass across all games.
	cycleTimeout = time.Minute
)

// SnapshotWriter persists feed snapshots to disk.
type SnapshotWriter interface {
	WriteFeed(game string, feed domain.MatchesResponse) error
}

// Poller refreshes every configured game on an interval, writing the
// merged feed to the store and optionally to disk snapshots.
type Poller struct {
	agg      *aggregator.Aggregator
	store    store.Store
	writer   SnapshotWriter
	games    []string
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration
	now      func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the poller loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the poller has had a recent success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Poller with sane defaults. The snapshot writer may be
// nil when snapshots are disabled.
func New(agg *aggregator.Aggregator, st store.Store, writer SnapshotWriter, games []string, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		agg:      agg,
		store:    st,
		writer:   writer,
		games:    games,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Start begins polling until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.startMu.Unlock()

	p.ticker = time.NewTicker(p.interval)

	go func() {
		logging.Info(p.logger, "poller started",
			slog.Int64(logging.FieldDurationMS, p.interval.Milliseconds()),
			slog.Int(logging.FieldCount, len(p.games)),
		)
		// Initial refresh to warm data on boot.
		p.refreshAll(ctx)

		for {
			select {
			case <-ctx.Done():
				p.stopTicker()
				logging.Info(p.logger, "poller stopped")
				return
			case <-p.done:
				p.stopTicker()
				logging.Info(p.logger, "poller stopped")
				return
			case <-p.ticker.C:
				p.refreshAll(ctx)
			}
		}
	}()
}

// Stop halts the polling loop.
func (p *Poller) Stop(ctx context.Context) error {
	_ = ctx
	p.stopOnce.Do(func() {
		close(p.done)
		p.stopTicker()
	})
	return nil
}

func (p *Poller) refreshAll(ctx context.Context) {
	start := time.Now()
	p.recordAttempt(start)

	cycleCtx, cancel := context.WithTimeout(ctx, cycleTimeout)
	defer cancel()

	var lastErr error
	for _, game := range p.games {
		if err := p.refreshGame(cycleCtx, game); err != nil {
			lastErr = err
		}
	}

	if p.metrics != nil {
		p.metrics.RecordPollerCycle(time.Since(start), lastErr)
	}
	if lastErr != nil {
		p.recordFailure(lastErr, start)
		return
	}
	p.recordSuccess(start)
}

func (p *Poller) refreshGame(ctx context.Context, game string) error {
	start := time.Now()
	result, err := p.agg.Fetch(ctx, game, "")
	if err != nil {
		logging.Error(p.logger, "poller refresh failed", err,
			slog.String(logging.FieldGame, game),
		)
		return err
	}

	if p.store != nil {
		if storeErr := p.store.SetMatches(ctx, game, result.Matches); storeErr != nil {
			logging.Error(p.logger, "poller store write failed", storeErr,
				slog.String(logging.FieldGame, game),
			)
		}
	}
	if p.writer != nil {
		feed := domain.NewMatchesResponse(game, result.Matches, result.Partial, p.now().UTC())
		if writeErr := p.writer.WriteFeed(game, feed); writeErr != nil {
			logging.Error(p.logger, "poller snapshot write failed", writeErr,
				slog.String(logging.FieldGame, game),
			)
		}
	}

	logging.Info(p.logger, "poller refreshed matches",
		slog.String(logging.FieldGame, game),
		slog.Int(logging.FieldCount, len(result.Matches)),
		slog.Bool("partial", result.Partial),
		slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()),
	)
	return nil
}

func (p *Poller) stopTicker() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the poller's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}
