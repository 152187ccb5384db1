// Package app is the composition root of peke.
//
// Run loads the config, opens the log file, restores the persisted token and
// wires the pieces together:
//
//	config.Load ──> logging.Init
//	auth.LoadTokenStore ──> auth.Session ──> api.Client
//	                          │
//	                          └─ auth.Watcher ──> state.Store.Reset
//	                                          └─> ui (back to login)
//	Poller ──> api.Client.FetchStatus ──> state.Store ──> ui snapshot
//
// The poller refreshes the dashboard at a fixed cadence with exponential
// backoff on failure. It is skipped while logged out and while a floating
// panel holds a suspension. An unauthorized poll does not touch the store;
// the watcher listeners own that reset.
//
// Logout clears the persisted token without starting the UI.
package app
