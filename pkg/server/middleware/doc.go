// Package middleware contains the HTTP middleware every request passes
// through: request ids, a request deadline and session resolution.
package middleware
