// Package state owns the post list view state and the controller that
// drives it.
//
// # Overview
//
// A Controller combines two inputs into one ViewState:
//
//	reachability.Observer ──┐
//	                        ├──► loop goroutine ──► Store ──► Changes()
//	Fetch()/Retry() ────────┘          │
//	                                   └──► posts.Fetch (one at a time)
//
// The loop goroutine is the only writer. Readers take copies through
// State() and learn about updates from the coalescing Changes() channel.
//
// # Transitions
//
//   - Reachability false: IsConnected=false, message "No Internet
//     Connection", items kept
//   - Reachability true: IsConnected=true, the offline message is cleared,
//     and a fetch starts if the list is empty
//   - Fetch while offline: message only, the client is never called
//   - Fetch while a fetch is in flight: ignored
//   - Fetch success: items replaced in server order; an empty list sets
//     "No posts available"
//   - Fetch failure: items kept, message from MessageFor, failure streak++
//
// Every message set gets a fresh ErrorID so identical consecutive messages
// are still distinguishable to the UI.
//
// # Lifetime
//
// Close stops the loop and cancels the in-flight request. Results that
// arrive afterwards, or belong to an older generation, are dropped.
package state
