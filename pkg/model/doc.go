// Package model defines the database models for the petition service.
//
// This package contains GORM models that map to the petition database schema.
// The schema itself is owned by the migrations in db/migrations.
//
// # Core Models
//
//   - Principal: an account able to sign in to the admin listing
//   - Signature: a single signed registration on the petition
//
// # Database Schema
//
//   - users: principals with bcrypt password hashes
//   - signatures: petition signatures, ordered by creation time
//   - messages: persisted audit events (see pkg/audit)
package model
