// Package worker implements the buffered worker pool that archives fetched
// game logs to ClickHouse. Enqueue never blocks the request path: when the
// queue is full the log is shed and counted.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/iceprop/prop-lab/internal/models"
)

// Prometheus metrics
var (
	logsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "proplab_archive_logs_enqueued_total",
		Help: "Total number of game logs accepted for archiving",
	})

	rowsArchived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "proplab_archive_rows_written_total",
		Help: "Total number of game rows written to ClickHouse",
	})

	rowsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "proplab_archive_rows_failed_total",
		Help: "Total number of game rows that failed to archive",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "proplab_archive_queue_depth",
		Help: "Current depth of the archive queue",
	})

	batchInsertDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "proplab_archive_batch_insert_duration_seconds",
		Help:    "Duration of batch inserts to ClickHouse",
		Buckets: prometheus.DefBuckets,
	})

	logsLoadShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "proplab_archive_logs_load_shed_total",
		Help: "Total number of game logs dropped because the queue was full",
	})
)

const insertGameLogs = `
	INSERT INTO proplab.game_logs (
		player_id, season, game_id, game_date, matchup, minutes,
		pts, reb, ast, stl, blk, tov, fg3m, archived_at
	)`

// Job is one game log waiting to be archived.
type Job struct {
	Log        *models.GameLog
	EnqueuedAt time.Time
}

// PoolConfig configures the worker pool
type PoolConfig struct {
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	ClickHouse    driver.Conn
	Logger        *zap.Logger
}

// Pool batches queued game logs into ClickHouse inserts.
type Pool struct {
	config   PoolConfig
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger

	mu      sync.RWMutex
	stopped bool
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
}

// Start launches the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	go p.reportQueueDepth()

	p.logger.Infow("Archive pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"batchSize", p.config.BatchSize,
	)
}

// Stop closes the queue and waits for workers to flush what they hold.
func (p *Pool) Stop() {
	p.logger.Info("Stopping archive pool...")

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobQueue)
	p.mu.Unlock()

	p.wg.Wait()
	if p.cancel != nil {
		p.cancel()
	}
	p.logger.Info("Archive pool stopped")
}

// Enqueue offers a log for archiving and reports whether it was accepted.
// A full queue or a stopped pool rejects immediately.
func (p *Pool) Enqueue(log *models.GameLog) bool {
	if log == nil || len(log.Games) == 0 {
		return false
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		logsLoadShed.Inc()
		return false
	}

	select {
	case p.jobQueue <- Job{Log: log, EnqueuedAt: time.Now()}:
		logsEnqueued.Inc()
		return true
	default:
		p.logger.Warnw("Archive queue full, dropping game log", "player", log.PlayerID, "season", log.Season)
		logsLoadShed.Inc()
		return false
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

// worker collects rows and flushes them by size or on the ticker.
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	batch := make([]Job, 0, p.config.BatchSize)
	rows := 0
	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		start := time.Now()
		appended, err := p.processBatch(batch)
		if err != nil {
			p.logger.Errorw("Archive batch failed",
				"worker", id,
				"logs", len(batch),
				"rows", rows,
				"error", err,
			)
			rowsFailed.Add(float64(rows))
		} else {
			p.logger.Debugw("Archive batch written", "worker", id, "logs", len(batch), "rows", appended, "duration", time.Since(start))
			rowsArchived.Add(float64(appended))
			rowsFailed.Add(float64(rows - appended))
		}
		batchInsertDuration.Observe(time.Since(start).Seconds())

		batch = batch[:0]
		rows = 0
	}

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				flush()
				return
			}
			batch = append(batch, job)
			rows += len(job.Log.Games)
			if rows >= p.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()
		}
	}
}

// processBatch writes every game of every queued log as one insert and
// returns how many rows were appended to it.
func (p *Pool) processBatch(batch []Job) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	chBatch, err := p.config.ClickHouse.PrepareBatch(ctx, insertGameLogs)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	appended := 0
	for _, job := range batch {
		log := job.Log
		for _, g := range log.Games {
			err := chBatch.Append(
				uint64(log.PlayerID),
				log.Season,
				g.GameID,
				g.Date,
				g.Matchup,
				float32(g.Minutes),
				statColumn(g, models.StatPoints),
				statColumn(g, models.StatRebounds),
				statColumn(g, models.StatAssists),
				statColumn(g, models.StatSteals),
				statColumn(g, models.StatBlocks),
				statColumn(g, models.StatTurnovers),
				statColumn(g, models.StatThrees),
				now,
			)
			if err != nil {
				p.logger.Warnw("Failed to append game to batch", "error", err, "player", log.PlayerID, "game", g.GameID)
				continue
			}
			appended++
		}
	}

	if err := chBatch.Send(); err != nil {
		p.logger.Errorw("Failed to send batch to ClickHouse", "error", err, "logs", len(batch))
		return 0, err
	}
	return appended, nil
}

// statColumn maps an absent stat to NULL.
func statColumn(g models.GameRecord, s models.Stat) *int32 {
	v, ok := g.Value(s)
	if !ok {
		return nil
	}
	n := int32(v)
	return &n
}

// reportQueueDepth periodically reports queue depth to Prometheus
func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			queueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}
