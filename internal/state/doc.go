// Package state holds the latest dashboard status snapshot.
//
// The poller writes through Update and the UI reads copies through Snapshot,
// so neither side ever shares a slice with the other. A failed poll keeps
// the previous services, records the error and counts consecutive failures
// for backoff and the offline banner. Reset forgets everything and runs when
// the session ends.
package state
