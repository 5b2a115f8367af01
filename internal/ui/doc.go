// Package ui renders postboard's terminal interface with Bubble Tea.
//
// # Data Flow
//
// The Model never mutates view state. It holds a copy of the controller's
// state.ViewState and replaces it whenever the controller signals a change:
//
//	controller.Changes() ──► waitForChange ──► stateMsg ──► Model.view
//
// waitForChange re-arms itself after every stateMsg, so exactly one goroutine
// waits on the controller at a time. A one-second tick keeps relative
// timestamps fresh and reloads the log pane while it is open.
//
// # Screen Layout
//
//   - Header: name, connectivity badge, endpoint host, spinner while
//     fetching, time since the last attempt and the failure streak
//   - Status line: "No Internet Connection" when offline, otherwise the
//     current message or the post count
//   - Post list: scrollable viewport in server order, bodies optional
//   - Log pane (l): tail of the structured log file
//   - Footer: short key help
//
// # Alerts
//
// A non-empty ErrorMessage opens a modal titled "Error". Dismissing it
// records the message's ErrorID; the same ID will not reopen the modal, but
// any new message (even with identical text) does.
//
// # Preferences
//
// Theme (T) and body visibility (b) are saved to prefs.toml as they change.
package ui
