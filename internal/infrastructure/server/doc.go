// Package server wires configuration, logging, metrics, the problem
// catalog, the sandbox pool and the evaluation engine behind a Gin router.
package server
