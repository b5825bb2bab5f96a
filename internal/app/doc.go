// Package app provides the orchestration layer for the remic application.
//
// # Overview
//
// This package wires configuration, logging, tracing, the to-do store, its
// render scheduler, the background refresher and the UI. It is the
// composition root: every long-lived object is created here and handed to
// the packages that use it.
//
// # Components
//
//   - app.go: Run, plus the NewFetcher and NewStore constructors shared
//     with the CLI
//   - refresher.go: background goroutine reloading the to-dos with backoff
//   - logging.go: slog text logger writing to the configured log file
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()           Read config.toml + REMIC_* env
//	       ├─────> OpenLogger()            slog to log_file
//	       ├─────> telemetry.Setup()       OTLP exporter when configured
//	       ├─────> NewFetcher()            File or HTTP to-do source
//	       ├─────> state.New()             The to-do store
//	       ├─────> binding.NewProvider()   Scheduler subscribed to the store
//	       ├─────> StartRefresher()        Background reloads
//	       └─────> ui.Run()                Start TUI (blocks)
//
//	Background Refresher Loop:
//	┌─────────────────────────────────────────────┐
//	│ StartRefresher() goroutine                  │
//	│  ├─> store.Update(StartRetrieving...)       │
//	│  │    loading=true → fetch → loading=false  │
//	│  ├─> on failure: store.Update(RecordFailure)│
//	│  └─> wait interval × 2^failures (≤ 10m)     │
//	└─────────────────────────────────────────────┘
//
// Store commits reach the UI through the provider's scheduler: at most one
// render cycle per rerender_interval, however many commits land in it.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Invalid configuration
//   - Log file cannot be created
//   - Unsupported to-do file extension or malformed URL
//
// Recoverable errors (logged, state records them, refreshing continues):
//   - Fetch failures and timeouts
//   - Tracing exporter setup failures
package app
