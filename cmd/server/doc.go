// Package main runs the judge HTTP server.
//
// The server evaluates JavaScript and TypeScript submissions against test
// cases and serves a problem catalog.
//
// Configuration comes from the environment (PORT, HOST, LOG_LEVEL, LOG_DEV,
// RATE_LIMIT_*, MAX_SOURCE_SIZE, EXECUTION_DEADLINE_MS, MAX_CALL_STACK,
// MAX_CONSOLE_ENTRIES, SANDBOX_POOL_SIZE, CATALOG_DIR, CATALOG_PATTERN);
// flags override it.
//
// Usage:
//
//	./server -port 8000 -catalog ./problems
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
