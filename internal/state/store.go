package state

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/five82/postboard/internal/posts"
)

// ViewState is everything the presentation layer renders.
type ViewState struct {
	Items       []posts.Post
	IsLoading   bool
	IsConnected bool

	// ErrorMessage is empty when there is nothing to report. ErrorID changes
	// every time a message is set so a UI can show each one exactly once.
	ErrorMessage string
	ErrorID      uuid.UUID

	LastUpdated         time.Time
	ConsecutiveFailures int
}

// HasError reports whether a user-facing message is pending.
func (s ViewState) HasError() bool {
	return s.ErrorMessage != ""
}

// Store holds the current ViewState. The controller loop is its only writer;
// readers get copies.
type Store struct {
	mu      sync.RWMutex
	state   ViewState
	changed chan struct{}
}

// NewStore returns a Store in the initial state.
func NewStore() *Store {
	return &Store{
		state:   ViewState{Items: []posts.Post{}},
		changed: make(chan struct{}, 1),
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.state
	snap.Items = clonePosts(s.state.Items)
	return snap
}

// Changes signals after every mutation. Signals coalesce; read Snapshot after
// receiving one.
func (s *Store) Changes() <-chan struct{} {
	return s.changed
}

func (s *Store) mutate(fn func(*ViewState)) {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()

	select {
	case s.changed <- struct{}{}:
	default:
	}
}

func (v *ViewState) setMessage(msg string) {
	if msg == "" {
		v.ErrorMessage = ""
		v.ErrorID = uuid.Nil
		return
	}
	v.ErrorMessage = msg
	v.ErrorID = uuid.New()
}

func clonePosts(items []posts.Post) []posts.Post {
	dup := make([]posts.Post, len(items))
	copy(dup, items)
	return dup
}
