// Package testutil provides in-memory doubles for the reachability observer
// and the HTTP client.
package testutil

import (
	"context"
	"sync"

	"github.com/five82/postboard/internal/netclient"
	"github.com/five82/postboard/internal/reachability"
)

// FakeReachability is an Observer whose value is set by the test. It keeps
// the replay-latest semantics of the real monitor.
type FakeReachability struct {
	*reachability.Subject
}

// NewFakeReachability returns a fake holding initial.
func NewFakeReachability(initial bool) *FakeReachability {
	return &FakeReachability{Subject: reachability.NewSubject(initial)}
}

// Set emits v to every subscriber.
func (f *FakeReachability) Set(v bool) {
	f.Send(v)
}

// FakeRequester is an in-memory netclient.Requester.
type FakeRequester struct {
	mu    sync.Mutex
	body  []byte
	err   error
	set   bool
	calls int
	urls  []string

	// Reach, when set, gates requests the way the real client does.
	Reach reachability.Observer
	// Gate, when set, blocks each request until a value is received or the
	// request context ends.
	Gate chan struct{}
}

// Ensure FakeRequester implements netclient.Requester at compile time.
var _ netclient.Requester = (*FakeRequester)(nil)

// SetResult configures what the next requests return.
func (f *FakeRequester) SetResult(body []byte, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.body = body
	f.err = err
	f.set = true
}

// Request records the call and returns the configured result. With nothing
// configured it fails with an invalid response.
func (f *FakeRequester) Request(ctx context.Context, rawURL string, method netclient.Method) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	f.urls = append(f.urls, rawURL)
	gate := f.Gate
	f.mu.Unlock()

	if f.Reach != nil && !f.Reach.Current() {
		return nil, netclient.ErrNoNetwork
	}

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, netclient.ErrInvalidResponse
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.set {
		return nil, netclient.ErrInvalidResponse
	}
	if f.err != nil {
		return nil, f.err
	}
	if len(f.body) == 0 {
		return nil, netclient.ErrNoData
	}
	out := make([]byte, len(f.body))
	copy(out, f.body)
	return out, nil
}

// Calls returns how many requests were made.
func (f *FakeRequester) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// URLs returns the requested URLs in call order.
func (f *FakeRequester) URLs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.urls...)
}
