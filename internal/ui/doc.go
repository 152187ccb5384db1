// Package ui is the Bubble Tea front end of the panel.
//
// The root Model switches between a login form and the dashboard. The
// dashboard shows a stacks sidebar next to the services table and draws at
// most one floating panel on top of it:
//
//   - logs panel: fetched container logs with line-count cycling, search,
//     copy to clipboard and export to a file
//   - shell panel: a remote command transcript with its own search
//
// Panels are moved by dragging the title row and resized from the ◢ handle
// in the bottom-right corner. Geometry is kept in terminal cells and saved
// per panel kind through prefs.Store when a gesture ends.
//
// While a panel is open the status poller is suspended. Responses that
// arrive after a panel was closed, or that were superseded by a newer
// fetch, are dropped.
//
// Auth failures are not handled per request. The auth.Watcher delivers a
// single session expired message and the model resets to the login form.
package ui
