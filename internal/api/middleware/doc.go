// Package middleware holds the Gin middleware shared by the HTTP API.
package middleware
