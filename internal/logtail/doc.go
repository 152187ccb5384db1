// Package logtail reads the tail of peke's own log file.
//
// Tail keeps only the last N lines in a ring while scanning, so large log
// files are never held in memory. Filter drops slog text lines below a
// level. Both back the `peke log` subcommand.
package logtail
