// Package gorm backs the store interfaces with Postgres through GORM.
//
// Every method takes the request context so a request deadline cancels the
// query. Driver errors are translated onto store.ErrNotFound and
// store.ErrDuplicate before they leave the package.
package gorm
