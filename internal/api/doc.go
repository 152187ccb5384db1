// Package api provides an HTTP client for the peke backend.
//
// # Overview
//
// The backend exposes a small REST surface for container control. This
// package maps it onto typed Go calls:
//
//   - POST /api/login: form-encoded credentials, returns an access token
//   - GET /api/status: every service container with usage figures
//   - POST /api/containers/{id}/start|stop|restart
//   - GET /api/containers/{id}/logs?lines=N: the tail of a container log
//   - POST /api/containers/{id}/exec: run a command, returns stdout, stderr
//     and the exit code
//   - GET /api/v2/stacks and GET /api/v2/stacks/{id}: compose stacks
//
// # Authentication
//
// Every request except Login carries "Authorization: Bearer <token>" when
// the Credentials hold a token. A 401 or 403 response produces a
// *StatusError that matches ErrUnauthorized via errors.Is, and the client
// calls Credentials.Invalidate with the rejected token so the session
// watcher can log the user out.
// Callers never need to handle the logout themselves; they only have to
// avoid showing the error inline.
//
// # Error Handling
//
// All errors are wrapped with context:
//   - "execute request: dial tcp: connection refused"
//   - "api /api/status returned status 500"
//   - "decode response: unexpected end of JSON input"
//
// # Testing Considerations
//
// Use httptest.Server to fake the backend and a small Credentials stub to
// observe invalidation.
package api
