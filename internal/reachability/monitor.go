package reachability

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const defaultProbeInterval = 2 * time.Second

// Probe reports whether the host currently has a usable network path.
type Probe interface {
	Reachable(ctx context.Context) (bool, error)
}

// ProbeFunc adapts a function to Probe.
type ProbeFunc func(ctx context.Context) (bool, error)

// Reachable calls f.
func (f ProbeFunc) Reachable(ctx context.Context) (bool, error) {
	return f(ctx)
}

// MonitorOption configures a Monitor.
type MonitorOption func(*Monitor)

// WithInterval sets how often the probe is consulted.
func WithInterval(d time.Duration) MonitorOption {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithLogger sets the monitor's logger.
func WithLogger(log zerolog.Logger) MonitorOption {
	return func(m *Monitor) {
		m.log = log.With().Str("component", "reachability").Logger()
	}
}

// Monitor is the production Observer. It starts watching the probe as soon
// as it is built and keeps a single polling loop until Close.
type Monitor struct {
	probe    Probe
	interval time.Duration
	log      zerolog.Logger
	subject  *Subject

	cancel    context.CancelFunc
	ready     chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// Ensure Monitor implements Observer at compile time.
var _ Observer = (*Monitor)(nil)

// NewMonitor starts observing probe. The value is false until the first
// probe result reports otherwise.
func NewMonitor(probe Probe, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		probe:    probe,
		interval: defaultProbeInterval,
		log:      zerolog.Nop(),
		subject:  NewSubject(false),
		ready:    make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	go m.run(ctx)
	return m
}

// Current returns the latest observed value.
func (m *Monitor) Current() bool {
	return m.subject.Current()
}

// Ready is closed once the first probe has finished (or the monitor stopped
// before it could).
func (m *Monitor) Ready() <-chan struct{} {
	return m.ready
}

// Subscribe returns a replay-latest stream of reachability changes.
func (m *Monitor) Subscribe() (<-chan bool, func()) {
	return m.subject.Subscribe()
}

// Close stops observing and closes every subscriber stream.
func (m *Monitor) Close() {
	m.closeOnce.Do(func() {
		m.cancel()
		<-m.done
		m.subject.Close()
	})
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.check(ctx)
	close(m.ready)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		m.check(ctx)
	}
}

func (m *Monitor) check(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, m.interval)
	defer cancel()

	reachable, err := m.probe.Reachable(probeCtx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		m.log.Warn().Err(err).Msg("reachability probe failed")
		reachable = false
	}
	if reachable == m.subject.Current() {
		return
	}
	m.subject.Send(reachable)
	if reachable {
		m.log.Info().Msg("network is available")
	} else {
		m.log.Info().Msg("network is unavailable")
	}
}
