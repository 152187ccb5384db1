// Package config loads peke's configuration.
//
// # Resolution
//
// Load reads a TOML file through viper:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/peke/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. PEKE_* environment variables override file values
//     (PEKE_API_URL, PEKE_TOKEN_PATH, ...)
//
// # Keys
//
//   - api_url: backend base URL (default http://127.0.0.1:8000)
//   - poll_seconds: dashboard refresh cadence (default 5)
//   - token_path: where the bearer token is kept (default ~/.local/state/peke/token)
//   - export_dir: log export directory (default ~/Downloads, then the working directory)
//   - log_file: peke's own log (default ~/.local/state/peke/peke.log)
//   - log_level: debug, info, warn or error (default info)
//
// Empty values fall back to their defaults and paths are ~-expanded.
//
// # Example
//
//	api_url = "https://panel.example.com"
//	poll_seconds = 10
//	export_dir = "~/logs"
package config
