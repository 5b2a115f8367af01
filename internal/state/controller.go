package state

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/postboard/internal/netclient"
	"github.com/five82/postboard/internal/posts"
	"github.com/five82/postboard/internal/reachability"
)

// Option configures a Controller.
type Option func(*Controller)

// WithEndpoint sets the URL the post list is fetched from.
func WithEndpoint(endpoint string) Option {
	return func(c *Controller) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithLogger sets the controller's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) {
		c.log = log.With().Str("component", "controller").Logger()
	}
}

type fetchResult struct {
	generation uint64
	items      []posts.Post
	err        error
}

// Controller owns the view state and drives fetches.
//
// Concurrency model: one loop goroutine is the only writer of the store.
// Reachability emissions, fetch requests and fetch completions all reach it
// through channels, in that order of arrival.
type Controller struct {
	reach    reachability.Observer
	client   netclient.Requester
	endpoint string
	log      zerolog.Logger
	store    *Store

	fetchCh  chan struct{}
	resultCh chan fetchResult

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool

	// Loop-owned.
	generation  uint64
	inFlight    bool
	cancelFetch context.CancelFunc
}

// New subscribes to reach and starts the controller loop. The replayed
// reachability value is applied before the initial fetch attempt.
func New(reach reachability.Observer, client netclient.Requester, opts ...Option) *Controller {
	c := &Controller{
		reach:    reach,
		client:   client,
		endpoint: posts.DefaultEndpoint,
		log:      zerolog.Nop(),
		store:    NewStore(),
		fetchCh:  make(chan struct{}, 16),
		resultCh: make(chan fetchResult),
		stopCh:   make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	updates, unsubscribe := reach.Subscribe()
	go c.run(updates, unsubscribe)
	return c
}

// State returns a copy of the current view state.
func (c *Controller) State() ViewState {
	return c.store.Snapshot()
}

// Changes signals whenever the view state changes.
func (c *Controller) Changes() <-chan struct{} {
	return c.store.Changes()
}

// Fetch asks the loop to load the post list.
func (c *Controller) Fetch() {
	if c.closed.Load() {
		return
	}
	select {
	case c.fetchCh <- struct{}{}:
	case <-c.stopped:
	}
}

// Retry is the user-triggered form of Fetch.
func (c *Controller) Retry() {
	c.Fetch()
}

// Close stops the loop, cancels any in-flight request and drops its result.
func (c *Controller) Close() {
	if c.closed.CompareAndSwap(false, true) {
		close(c.stopCh)
	}
	<-c.stopped
}

func (c *Controller) run(updates <-chan bool, unsubscribe func()) {
	defer close(c.stopped)
	defer unsubscribe()
	defer func() {
		if c.cancelFetch != nil {
			c.cancelFetch()
		}
	}()

	select {
	case v, ok := <-updates:
		if ok {
			c.handleReachability(v)
		} else {
			updates = nil
		}
	case <-c.stopCh:
		return
	}
	c.startFetch()

	for {
		select {
		case <-c.stopCh:
			return

		case v, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			c.handleReachability(v)

		case <-c.fetchCh:
			c.startFetch()

		case res := <-c.resultCh:
			c.finishFetch(res)
		}
	}
}

func (c *Controller) handleReachability(connected bool) {
	var empty bool
	c.store.mutate(func(s *ViewState) {
		s.IsConnected = connected
		if !connected {
			s.setMessage(MsgNoConnection)
		} else if s.ErrorMessage == MsgNoConnection {
			s.setMessage("")
		}
		empty = len(s.Items) == 0
	})
	c.log.Debug().Bool("connected", connected).Msg("reachability changed")

	if connected && empty {
		c.startFetch()
	}
}

func (c *Controller) startFetch() {
	snap := c.store.Snapshot()
	if !snap.IsConnected {
		c.store.mutate(func(s *ViewState) { s.setMessage(MsgNoConnection) })
		return
	}
	if c.inFlight {
		c.log.Debug().Msg("fetch already in flight, ignoring request")
		return
	}

	c.inFlight = true
	c.generation++
	gen := c.generation
	c.store.mutate(func(s *ViewState) { s.IsLoading = true })

	ctx, cancel := context.WithCancel(context.Background())
	c.cancelFetch = cancel
	c.log.Debug().Uint64("generation", gen).Str("endpoint", c.endpoint).Msg("fetching posts")

	go func() {
		items, err := posts.Fetch(ctx, c.client, c.endpoint)
		select {
		case c.resultCh <- fetchResult{generation: gen, items: items, err: err}:
		case <-c.stopCh:
		}
	}()
}

func (c *Controller) finishFetch(res fetchResult) {
	if res.generation != c.generation {
		c.log.Debug().Uint64("generation", res.generation).Msg("dropping stale fetch result")
		return
	}
	c.inFlight = false
	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
	}

	now := time.Now()
	if res.err != nil {
		msg := MessageFor(res.err)
		c.log.Warn().Err(res.err).Str("message", msg).Msg("fetch failed")
		c.store.mutate(func(s *ViewState) {
			s.IsLoading = false
			s.setMessage(msg)
			s.LastUpdated = now
			s.ConsecutiveFailures++
		})
		return
	}

	c.log.Info().Int("count", len(res.items)).Msg("posts loaded")
	c.store.mutate(func(s *ViewState) {
		s.IsLoading = false
		s.Items = clonePosts(res.items)
		if len(res.items) == 0 {
			s.setMessage(MsgNoPosts)
		} else {
			s.setMessage("")
		}
		s.LastUpdated = now
		s.ConsecutiveFailures = 0
	})
}
