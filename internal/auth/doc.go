// Package auth owns the process-wide session credential.
//
// # Overview
//
// A Session combines two pieces:
//
//   - TokenStore: the bearer token, mirrored to a file so a restart keeps the
//     user logged in
//   - Watcher: a publish/subscribe registry of invalidation listeners
//
// The API client receives the Session at construction time. When the backend
// answers 401 or 403 the client calls Session.Invalidate with the token the
// request carried. The token file is removed and every listener fires exactly
// once, but only if that token is still the current one.
//
// # Listener Isolation
//
// Watcher.Notify runs listeners synchronously in subscription order. Each call
// is wrapped in a recover so a panicking listener is logged and skipped
// without preventing the others from running.
//
// # Usage Example
//
//	tokens, err := auth.LoadTokenStore(cfg.TokenPath)
//	if err != nil {
//		return err
//	}
//	session := auth.NewSession(tokens, auth.NewWatcher())
//	unsubscribe := session.Watcher().Subscribe(func() {
//		program.Send(sessionExpiredMsg{})
//	})
//	defer unsubscribe()
package auth
