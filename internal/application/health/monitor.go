package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DatabaseState is the connectivity state reported for the database
type DatabaseState string

const (
	DatabaseConnected    DatabaseState = "connected"
	DatabaseDisconnected DatabaseState = "disconnected"
	DatabaseUnknown      DatabaseState = "unknown"
)

// Pinger checks connectivity to the database
type Pinger interface {
	Ping(ctx context.Context) error
}

// Recorder receives the outcome of every database check
type Recorder interface {
	RecordDatabaseCheck(up bool, duration time.Duration)
}

// Status is the result of a database health check
type Status struct {
	Database  DatabaseState
	Healthy   bool
	Error     string
	Latency   time.Duration
	CheckedAt time.Time
}

// Monitor monitors database health
type Monitor struct {
	pinger   Pinger
	recorder Recorder
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger

	// notifyMu orders store, record and publish across concurrent checks
	notifyMu sync.Mutex

	mu          sync.RWMutex
	running     bool
	stopCh      chan struct{}
	doneCh      chan struct{}
	last        *Status
	subscribers []func(*Status)
}

// NewMonitor creates a new database health monitor. recorder may be nil.
func NewMonitor(pinger Pinger, recorder Recorder, interval, timeout time.Duration, logger *zap.Logger) *Monitor {
	return &Monitor{
		pinger:   pinger,
		recorder: recorder,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
		last:     &Status{Database: DatabaseUnknown},
	}
}

// Subscribe registers fn to be called with the result of every stored
// check, in the order results are stored. fn runs on the checking goroutine;
// it must not block and must not call Check.
func (m *Monitor) Subscribe(fn func(*Status)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.subscribers = append(m.subscribers, fn)
}

// Start starts the periodic health checks
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	stopCh, doneCh := make(chan struct{}), make(chan struct{})
	m.stopCh, m.doneCh = stopCh, doneCh
	m.mu.Unlock()

	go m.run(stopCh, doneCh)
}

// Stop stops the periodic health checks and waits for the loop to exit
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	stopCh, doneCh := m.stopCh, m.doneCh
	m.mu.Unlock()

	close(stopCh)
	<-doneCh
}

// run is the main health monitoring loop
func (m *Monitor) run(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	// Stop aborts an in-flight ping
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Check pings the database, stores the result and notifies subscribers.
// A check aborted by the caller's ctx is returned but not stored, recorded
// or published: it says nothing about the database.
func (m *Monitor) Check(ctx context.Context) *Status {
	pingCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := time.Now()
	err := m.pinger.Ping(pingCtx)
	latency := time.Since(start)

	status := &Status{
		Database:  DatabaseConnected,
		Healthy:   true,
		Latency:   latency,
		CheckedAt: time.Now(),
	}
	if err != nil {
		status.Database = DatabaseDisconnected
		status.Healthy = false
		status.Error = err.Error()

		if ctx.Err() != nil {
			m.logger.Debug("database health check aborted by caller", zap.Error(ctx.Err()))
			return status
		}
	}

	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	m.mu.Lock()
	previous := m.last
	m.last = status
	subscribers := make([]func(*Status), len(m.subscribers))
	copy(subscribers, m.subscribers)
	m.mu.Unlock()

	if m.recorder != nil {
		m.recorder.RecordDatabaseCheck(status.Healthy, latency)
	}

	if previous.Database != status.Database {
		if status.Healthy {
			m.logger.Info("database connected", zap.Duration("latency", latency))
		} else {
			m.logger.Warn("database unreachable",
				zap.String("previous", string(previous.Database)),
				zap.Error(err))
		}
	} else {
		m.logger.Debug("database health check",
			zap.String("database", string(status.Database)),
			zap.Duration("latency", latency))
	}

	for _, fn := range subscribers {
		fn(status)
	}

	return status
}

// Last returns the result of the most recent check
func (m *Monitor) Last() *Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.last
}

// IsHealthy returns true if the most recent check succeeded
func (m *Monitor) IsHealthy() bool {
	return m.Last().Healthy
}
