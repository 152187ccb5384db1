// Package panel implements the state behind peke's floating panels.
//
// # Overview
//
// A floating panel hosts either a container's log tail or a remote shell.
// Everything in this package is UI-agnostic: the ui package owns rendering
// and routes key and mouse events here.
//
// # Components
//
//   - geometry.go: GeometryController, the panel rectangle plus drag and
//     resize gestures, persisted per panel kind through a GeometryStore
//   - search.go: SearchEngine, literal case-insensitive matching with a
//     current match and wraparound navigation
//   - buffer.go: LogBuffer, a wholesale-replaced log body with export and
//     clipboard copy
//   - transcript.go: Transcript and Shell, the command history of a shell
//     panel and its submit logic
//   - refresh.go: RequestTracker, the staleness guard for panel fetches
//
// # Geometry
//
// Coordinates are terminal cells. A drag can only start on the two header
// rows (border and title); a resize only on the bottom-right grip. Position
// is clamped at zero but may run past the right or bottom edge. Width and
// height never fall below the minimum, which is recomputed from the measured
// chrome rows plus a per-kind content margin:
//
//	MinHeight = max(10, header + toolbar + input + frame + margin)
//	margin    = 6 (logs), 5 (shell)
//	MinWidth  = 40
//
// Geometry is written to the store when a gesture ends, never during one.
//
// # Search
//
// Matches are ordered by line then byte offset. A per-line index records the
// global match numbers on each line so Highlight can mark the current match
// without counting during render. Changing either the query or the content
// resets the current match to the first one.
//
// # Staleness
//
// Every fetch is issued through a RequestTracker. A response is applied only
// if its sequence number is still the latest and the panel has not been
// closed, so a slow lines=100 response can never overwrite a lines=500 one
// issued after it.
package panel
