// Package app is postboard's composition root.
//
// # Startup
//
// Run and FetchOnce share the same wiring:
//
//  1. Resolve config: defaults, config.toml, POSTBOARD_* env, changed flags
//  2. Open the zerolog logger (JSON file for the TUI, console for fetch)
//  3. Start the reachability.Monitor and give its first probe up to one
//     probe interval, so the UI does not open on a false "offline"
//  4. Build the netclient.Client gated on that monitor
//
// Run then creates the state.Controller and the Bubble Tea program. An
// errgroup runs the program alongside a watcher that quits it when the
// context is cancelled (SIGINT/SIGTERM from cmd/postboard). On exit the
// controller, monitor and log file are closed in reverse order.
//
// FetchOnce skips the controller and UI: it fetches once and prints the
// posts as text or indented JSON. Failures are reported with the same
// user-facing message the UI would show.
package app
